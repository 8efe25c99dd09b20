package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/slash/internal/api/client"
	domain "github.com/donaldgifford/slash/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printItemsTable(w io.Writer, items []domain.RawItem) error {
	tw := newTabWriter(w)
	tw.writef("SITE\tPRICE\tTITLE\tLINK\n")
	for i := range items {
		tw.writef("%s\t%s\t%s\t%s\n",
			items[i].SiteName,
			items[i].Price,
			truncate(items[i].Title, 50),
			items[i].Link,
		)
	}
	return tw.finish()
}

func printListingsTable(w io.Writer, listings []domain.Listing) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tPRICE\tPOSTED\tSOLD\n")
	for i := range listings {
		tw.writef("%s\t%s\t$%.2f\t%s\t%v\n",
			listings[i].ID,
			truncate(listings[i].Name, 40),
			listings[i].Price,
			listings[i].PostedAt.Format(timeLayout),
			listings[i].Sold,
		)
	}
	return tw.finish()
}

func printProductsTable(w io.Writer, ids []string, products []domain.Product) error {
	tw := newTabWriter(w)
	tw.writef("ID\tSITE\tPRICE\tNAME\n")
	for i := range products {
		tw.writef("%s\t%s\t$%.2f\t%s\n",
			ids[i],
			products[i].Site,
			products[i].Price,
			truncate(products[i].Name, 50),
		)
	}
	return tw.finish()
}

func printWishlistTable(w io.Writer, items []domain.WishlistItem) error {
	ids := make([]string, len(items))
	products := make([]domain.Product, len(items))
	for i := range items {
		ids[i] = items[i].ID
		products[i] = items[i].Product
	}
	return printProductsTable(w, ids, products)
}

func printCart(w io.Writer, cart *apiclient.CartResponse) error {
	ids := make([]string, len(cart.Items))
	products := make([]domain.Product, len(cart.Items))
	for i := range cart.Items {
		ids[i] = cart.Items[i].ID
		products[i] = cart.Items[i].Product
	}
	if err := printProductsTable(w, ids, products); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal: $%.2f\n", cart.Total)
	return err
}

func printOrdersTable(w io.Writer, orders []domain.Order) error {
	tw := newTabWriter(w)
	tw.writef("ORDER\tPLACED\tITEMS\tTOTAL\n")
	for i := range orders {
		tw.writef("%s\t%s\t%d\t$%.2f\n",
			orders[i].OrderID,
			orders[i].PlacedAt.Format(timeLayout),
			len(orders[i].Lines),
			orders[i].Total(),
		)
	}
	return tw.finish()
}

func printAlertReport(w io.Writer, r *apiclient.AlertReport) error {
	tw := newTabWriter(w)
	tw.writef("User:\t%s\n", r.Username)
	tw.writef("Recipient:\t%s\n", r.Recipient)
	tw.writef("Price drops:\t%d\n", len(r.Items))
	tw.writef("Delivered:\t%v\n", r.Delivered)
	if r.DeliveryError != "" {
		tw.writef("Delivery error:\t%s\n", r.DeliveryError)
	}
	if err := tw.finish(); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	tw = newTabWriter(w)
	tw.writef("TITLE\tNOW\tWAS\tLINK\n")
	for i := range r.Items {
		tw.writef("%s\t$%s\t$%.2f\t%s\n",
			truncate(r.Items[i].Title, 50),
			r.Items[i].Price,
			r.Items[i].ReferencePrice,
			r.Items[i].Link,
		)
	}
	return tw.finish()
}

func printHistory(w io.Writer, h *apiclient.PriceHistoryResponse) error {
	tw := newTabWriter(w)
	tw.writef("Product:\t%s (%s)\n", h.Product.Name, h.Product.Site)
	tw.writef("Current:\t$%.2f %s\n", h.Product.Price, h.Product.Currency)
	if err := tw.finish(); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	tw = newTabWriter(w)
	tw.writef("RECORDED\tPRICE\n")
	for i := range h.Points {
		tw.writef("%s\t$%.2f\n", h.Points[i].RecordedAt.Format(timeLayout), h.Points[i].Price)
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
