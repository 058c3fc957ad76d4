package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

func main() {
	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
