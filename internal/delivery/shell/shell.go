// Package shell implements the interactive, menu-driven inventory console.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockkeep/backend/internal/domain"
	"github.com/stockkeep/backend/internal/usecase"
)

const separator = "--------------------------------------------------"

const menu = `
1. Add Product
2. Sell Product
3. Restock Product
4. Remove Product
5. Search Products
6. View All Products
7. Total Inventory Value
8. Remove Expired Products
9. Save Inventory
10. Load Inventory
0. Exit`

// Shell reads menu choices from in and writes results to out
type Shell struct {
	service *usecase.InventoryService
	in      io.Reader
	out     io.Writer
	lines   <-chan inputLine
}

// inputLine is one line read from the input, or the error that ended it
type inputLine struct {
	text string
	err  error
}

// NewShell creates a shell bound to service
func NewShell(service *usecase.InventoryService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		service: service,
		in:      in,
		out:     out,
	}
}

// Run loops until the user exits, input ends or ctx is cancelled.
// Reaching the end of input is a normal exit. Cancelling ctx interrupts a
// pending prompt.
func (s *Shell) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	s.lines = readLines(s.in, done)

	s.println("================ Inventory Management System ================")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.println(menu)
		choice, err := s.prompt(ctx, "Enter your choice: ")
		if err != nil {
			return ignoreEOF(err)
		}

		if choice == "0" {
			s.println("Goodbye.")
			return nil
		}

		if err := s.dispatch(ctx, choice); err != nil {
			return ignoreEOF(err)
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.addProduct(ctx)
	case "2":
		return s.adjustStock(ctx, "Sold", s.service.Sell)
	case "3":
		return s.adjustStock(ctx, "Restocked", s.service.Restock)
	case "4":
		return s.removeProduct(ctx)
	case "5":
		return s.search(ctx)
	case "6":
		s.printProducts(s.service.ListProducts(ctx), "Inventory is empty.")
	case "7":
		s.printf("Total inventory value: %.2f\n", s.service.TotalValue(ctx))
	case "8":
		removed := s.service.SweepExpired(ctx)
		s.printf("Removed %d expired product(s).\n", len(removed))
		if len(removed) > 0 {
			s.println(strings.Join(removed, ", "))
		}
	case "9":
		return s.save(ctx)
	case "10":
		return s.load(ctx)
	default:
		s.println("Invalid choice. Please try again.")
	}
	return nil
}

func (s *Shell) addProduct(ctx context.Context) error {
	tag, err := s.prompt(ctx, "Type (Electronics/Grocery/Clothing): ")
	if err != nil {
		return err
	}
	kind, err := domain.ParseKind(tag)
	if err != nil {
		s.printError(err)
		return nil
	}

	input := usecase.ProductInput{Type: string(kind)}
	if input.ID, err = s.prompt(ctx, "Product ID: "); err != nil {
		return err
	}
	if input.Name, err = s.prompt(ctx, "Name: "); err != nil {
		return err
	}
	if input.Price, err = s.promptFloat(ctx, "Price: "); err != nil {
		return err
	}
	if input.Quantity, err = s.promptInt(ctx, "Quantity: "); err != nil {
		return err
	}

	switch kind {
	case domain.KindElectronics:
		if input.Brand, err = s.prompt(ctx, "Brand: "); err != nil {
			return err
		}
		if input.WarrantyYears, err = s.promptInt(ctx, "Warranty (years): "); err != nil {
			return err
		}
	case domain.KindGrocery:
		if input.ExpiryDate, err = s.prompt(ctx, "Expiry date (YYYY-MM-DD): "); err != nil {
			return err
		}
	case domain.KindClothing:
		if input.Size, err = s.prompt(ctx, "Size: "); err != nil {
			return err
		}
		if input.Material, err = s.prompt(ctx, "Material: "); err != nil {
			return err
		}
	}

	product, err := s.service.AddProduct(ctx, input)
	if err != nil {
		s.printError(err)
		return nil
	}
	s.printf("Product %s added.\n", product.ID)
	return nil
}

func (s *Shell) adjustStock(ctx context.Context, verb string, apply func(context.Context, string, int) (domain.Product, error)) error {
	id, err := s.prompt(ctx, "Product ID: ")
	if err != nil {
		return err
	}
	quantity, err := s.promptInt(ctx, "Quantity: ")
	if err != nil {
		return err
	}

	product, err := apply(ctx, id, quantity)
	if err != nil {
		s.printError(err)
		return nil
	}
	s.printf("%s %d of %s. Stock: %d\n", verb, quantity, product.ID, product.Quantity)
	return nil
}

func (s *Shell) removeProduct(ctx context.Context) error {
	id, err := s.prompt(ctx, "Product ID: ")
	if err != nil {
		return err
	}
	if s.service.RemoveProduct(ctx, id) {
		s.printf("Product %s removed.\n", id)
	} else {
		s.printf("No product with ID %s.\n", id)
	}
	return nil
}

func (s *Shell) search(ctx context.Context) error {
	mode, err := s.prompt(ctx, "Search by name/type: ")
	if err != nil {
		return err
	}

	switch strings.ToLower(mode) {
	case "name":
		name, err := s.prompt(ctx, "Name: ")
		if err != nil {
			return err
		}
		s.printProducts(s.service.SearchByName(ctx, name), "No products found.")
	case "type":
		tag, err := s.prompt(ctx, "Type: ")
		if err != nil {
			return err
		}
		s.printProducts(s.service.SearchByType(ctx, tag), "No products found.")
	default:
		s.println("Invalid search mode. Use name or type.")
	}
	return nil
}

func (s *Shell) save(ctx context.Context) error {
	name, err := s.prompt(ctx, "Filename: ")
	if err != nil {
		return err
	}
	count, err := s.service.Save(ctx, name)
	if err != nil {
		s.printError(err)
		return nil
	}
	s.printf("Saved %d product(s) to %s.\n", count, name)
	return nil
}

func (s *Shell) load(ctx context.Context) error {
	name, err := s.prompt(ctx, "Filename: ")
	if err != nil {
		return err
	}
	count, err := s.service.Load(ctx, name)
	if err != nil {
		s.printError(err)
		return nil
	}
	s.printf("Loaded %d product(s) from %s.\n", count, name)
	return nil
}

func (s *Shell) printProducts(products []domain.Product, empty string) {
	if len(products) == 0 {
		s.println(empty)
		return
	}
	for _, p := range products {
		s.println(s.service.Describe(p))
		s.println(separator)
	}
}

// readLines scans in on its own goroutine so a blocked read never delays
// cancellation. It stops once done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- inputLine{text: scanner.Text()}:
			case <-done:
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		select {
		case lines <- inputLine{err: err}:
		case <-done:
		}
	}()
	return lines
}

// prompt returns the next trimmed line, io.EOF when input is exhausted,
// or ctx's error once it is cancelled
func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)
	select {
	case <-ctx.Done():
		s.println("")
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		if line.err != nil {
			return "", line.err
		}
		return strings.TrimSpace(line.text), nil
	}
}

func (s *Shell) promptInt(ctx context.Context, label string) (int, error) {
	for {
		line, err := s.prompt(ctx, label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		s.println("Please enter a whole number.")
	}
}

func (s *Shell) promptFloat(ctx context.Context, label string) (float64, error) {
	for {
		line, err := s.prompt(ctx, label)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return f, nil
		}
		s.println("Please enter a number.")
	}
}

func (s *Shell) printError(err error) {
	s.printf("Error: %v\n", err)
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
