package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/masala/backend/internal/application/notification"
	"github.com/masala/backend/internal/application/planner"
	"github.com/masala/backend/internal/domain/allocation"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer renders quantities and names for one locale
type printer struct {
	p     *message.Printer
	title cases.Caser
}

func newPrinter(lang string) *printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &printer{p: message.NewPrinter(tag), title: cases.Title(tag)}
}

// qty formats a quantity with locale grouping and up to three decimals
func (pr *printer) qty(d decimal.Decimal, unit string) string {
	s := pr.p.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
	if unit == "" {
		return s
	}
	return s + " " + unit
}

func (pr *printer) name(s string) string {
	return pr.title.String(strings.TrimSpace(s))
}

func (pr *printer) showSession(w io.Writer, s *planner.Session) {
	o := s.Order()
	fmt.Fprintf(w, "Order %s  %s  [%s]\n", o.OrderNumber, pr.name(o.CustomerName), o.Status)

	for _, g := range s.Groups() {
		fmt.Fprintf(w, "\n%s\n", pr.name(g.Title))
		for _, u := range g.Units {
			fmt.Fprintf(w, "  %-40s %s\n", u.Key, pr.name(u.ProductName))
			fmt.Fprintf(w, "      required %s, allocated %s, remaining %s\n",
				pr.qty(u.Required, u.Unit), pr.qty(s.Allocated(u.Key), u.Unit), pr.qty(s.Remaining(u.Key), u.Unit))
			for _, a := range s.Allocations(u.Key) {
				fmt.Fprintf(w, "      - %s: %s\n", a.Batch, pr.qty(a.Quantity, a.Unit))
			}
			pr.showAvailability(w, s, u)
		}
	}

	if warnings := s.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(w, "\nSkipped (%d)\n", len(warnings))
		for _, sk := range warnings {
			fmt.Fprintf(w, "  ! %s\n", sk)
		}
	}
}

func (pr *printer) showAvailability(w io.Writer, s *planner.Session, u allocation.Unit) {
	avail, ok := s.Availability(u.ProductID)
	switch {
	case !ok:
		fmt.Fprintln(w, "      batches: not loaded")
	case len(avail) == 0:
		fmt.Fprintln(w, "      batches: none in stock")
	default:
		parts := make([]string, len(avail))
		for i, a := range avail {
			parts[i] = a.Batch + " " + pr.qty(a.TotalQuantity, a.Unit)
		}
		fmt.Fprintf(w, "      batches: %s\n", strings.Join(parts, ", "))
	}
}

func (pr *printer) showAdjustments(w io.Writer, adjustments []adjustment) {
	for _, a := range adjustments {
		fmt.Fprintf(w, "adjusted %s batch %s: requested %s, applied %s (%s)\n",
			a.UnitKey, a.Batch, pr.qty(a.Requested, ""), pr.qty(a.Applied, ""), a.Reason)
	}
}

// noticeWriter prints notices as they are published
func noticeWriter(w io.Writer) func(notification.Notice) {
	return func(n notification.Notice) {
		fmt.Fprintf(w, "[%s] %s: %s\n", n.Level, n.Title, n.Message)
	}
}
