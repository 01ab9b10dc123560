package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-extras/cobraflags"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"umkm-pos/internal/cart"
	"umkm-pos/internal/client"
	"umkm-pos/internal/model"
)

const (
	paymentFlag  = "payment"
	locationFlag = "location"
	notesFlag    = "notes"
)

const itemUsage = "Cart line as product_id:variation_id:qty[:grosir]; repeatable"

// parseItem reads "product:variation:qty" with an optional ":grosir" suffix.
// An empty variation selects the product's default variation.
func parseItem(s string) (cart.Item, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return cart.Item{}, fmt.Errorf("item %q: want product_id:variation_id:qty[:grosir]", s)
	}
	productID, err := uuid.Parse(parts[0])
	if err != nil {
		return cart.Item{}, fmt.Errorf("item %q: bad product id: %w", s, err)
	}
	variationID := productID
	if parts[1] != "" {
		if variationID, err = uuid.Parse(parts[1]); err != nil {
			return cart.Item{}, fmt.Errorf("item %q: bad variation id: %w", s, err)
		}
	}
	qty, err := strconv.Atoi(parts[2])
	if err != nil || qty < 1 {
		return cart.Item{}, fmt.Errorf("item %q: quantity must be a positive number", s)
	}
	item := cart.Item{ProductID: productID, VariationID: variationID, Quantity: qty}
	if len(parts) == 4 {
		switch strings.ToLower(parts[3]) {
		case "grosir", "wholesale":
			item.Wholesale = true
		case "", "retail":
		default:
			return cart.Item{}, fmt.Errorf("item %q: unknown price type %q", s, parts[3])
		}
	}
	return item, nil
}

func parseItems(raw []string) ([]cart.Item, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --item is required")
	}
	items := make([]cart.Item, 0, len(raw))
	for _, s := range raw {
		it, err := parseItem(s)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func newQuoteCommand() *cobra.Command {
	var rawItems []string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a cart without recording it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := parseItems(rawItems)
			if err != nil {
				return err
			}
			e, err := newEnv()
			if err != nil {
				return err
			}
			snap, err := e.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if !snap.Can(model.PrivTransactionCreate) {
				return fmt.Errorf("akses ditolak: butuh hak %s", model.PrivTransactionCreate)
			}
			q, err := e.client.Quote(cmd.Context(), items)
			if err != nil {
				return err
			}
			printQuote(cmd.OutOrStdout(), q)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&rawItems, "item", "i", nil, itemUsage)
	return cmd
}

func newSaleCommand(use, short string, hold bool) *cobra.Command {
	var rawItems []string
	flags := map[string]cobraflags.Flag{
		paymentFlag: &cobraflags.StringFlag{
			Name:  paymentFlag,
			Value: string(model.PaymentCash),
			Usage: "Payment method: CASH, TRANSFER, QRIS or CARD",
		},
		locationFlag: &cobraflags.StringFlag{
			Name:  locationFlag,
			Value: "",
			Usage: "Store location to take stock from (default: any store)",
		},
		notesFlag: &cobraflags.StringFlag{
			Name:  notesFlag,
			Value: "",
			Usage: "Free text note",
		},
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := parseItems(rawItems)
			if err != nil {
				return err
			}
			e, err := newEnv()
			if err != nil {
				return err
			}
			snap, err := e.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if !snap.Can(model.PrivTransactionCreate) {
				return fmt.Errorf("akses ditolak: butuh hak %s", model.PrivTransactionCreate)
			}

			sale := &client.Sale{
				Items:         items,
				PaymentMethod: model.PaymentMethod(strings.ToUpper(flags[paymentFlag].GetString())),
				LocationName:  flags[locationFlag].GetString(),
			}
			if n := flags[notesFlag].GetString(); n != "" {
				sale.Notes = &n
			}

			record := e.client.Checkout
			if hold {
				record = e.client.Hold
			}
			trx, err := record(cmd.Context(), sale)
			if err != nil {
				return err
			}
			printTransaction(cmd.OutOrStdout(), trx)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&rawItems, "item", "i", nil, itemUsage)
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func printQuote(w io.Writer, q *cart.Quote) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Produk\tQty\tHarga\tJenis\tTotal")
	for _, l := range q.Lines {
		name := l.ProductName
		if l.VariationName != "" && l.VariationName != model.DefaultVariationName {
			name += " (" + l.VariationName + ")"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", name, l.Quantity, client.FormatIDR(l.UnitPrice), l.PriceLabel(), client.FormatIDR(l.LineTotal))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nJumlah item: %d\n", q.ItemCount)
	fmt.Fprintf(w, "Subtotal:    %s\n", client.FormatIDR(q.Subtotal))
	fmt.Fprintf(w, "PPN %s:     %s\n", client.FormatPercent(q.TaxRate), client.FormatIDR(q.Tax))
	fmt.Fprintf(w, "Total (%s): %s\n", client.CurrencyCode(), client.FormatIDR(q.Total))
}

func printTransaction(w io.Writer, trx *model.Transaction) {
	status := "Lunas"
	if trx.PaymentStatus == model.PaymentHeld {
		status = "Disimpan"
	}
	fmt.Fprintf(w, "%s  %s\n", trx.TransactionNumber, status)
	for _, it := range trx.Items {
		fmt.Fprintf(w, "  %dx %s  %s\n", it.Quantity, it.ProductName, client.FormatIDR(it.TotalPrice))
	}
	fmt.Fprintf(w, "Subtotal: %s\n", client.FormatIDR(trx.Subtotal))
	fmt.Fprintf(w, "Pajak:    %s\n", client.FormatIDR(trx.TaxAmount))
	fmt.Fprintf(w, "Total:    %s\n", client.FormatIDR(trx.TotalAmount))
}
