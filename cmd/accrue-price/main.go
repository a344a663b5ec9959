// Command accrue-price prints the ABI-encoded linearly accrued price.
//
//	accrue-price <lastUpdated> <currentTimestamp> <interestRate> <basePrice>
//
// interestRate and basePrice are 1e18 fixed-point numerals. The result is
// written as a single 0x-prefixed uint256 word. On failure nothing is
// written to stdout.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"priceaccrual/internal/accrual"
)

const (
	exitParse    = 1
	exitEncoding = 2
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("accrue-price: ")

	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Print(err)
		os.Exit(exitCode(err))
	}
}

func run(args []string, stdout io.Writer) error {
	word, err := accrual.Accrue(args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, word)
	return err
}

func exitCode(err error) int {
	var encErr *accrual.EncodingError
	if errors.As(err, &encErr) {
		return exitEncoding
	}
	return exitParse
}
