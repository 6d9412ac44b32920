package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/netondemand/portal/internal/core/domain"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes aligned columns. Call flush when all rows are added.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.row(headers...)
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

// render prints v as JSON under --json or PORTALCTL_JSON, otherwise calls text.
func render(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	if current != nil && current.json {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	return text(cmd.OutOrStdout())
}

func renderServices(cmd *cobra.Command, services []domain.ServiceSummary, p *domain.Pagination) error {
	v := any(services)
	if p != nil {
		v = domain.Page[domain.ServiceSummary]{Data: services, Pagination: *p}
	}
	return render(cmd, v, func(w io.Writer) error {
		t := newTable(w, "ID", "NAME", "CATEGORY", "TYPE", "BANDWIDTH", "MONTHLY", "ADJUSTABLE")
		for _, s := range services {
			t.row(s.ID, s.Name, s.CategoryName, s.ServiceType,
				bandwidth(s.BaseBandwidthMbps), money(s.MonthlyPriceOrBase()), yesNo(s.IsBandwidthAdjustable))
		}
		if err := t.flush(); err != nil {
			return err
		}
		return footer(w, p)
	})
}

func renderOrders(cmd *cobra.Command, orders []domain.Order, p *domain.Pagination) error {
	v := any(orders)
	if p != nil {
		v = domain.Page[domain.Order]{Data: orders, Pagination: *p}
	}
	return render(cmd, v, func(w io.Writer) error {
		t := newTable(w, "NUMBER", "ID", "TYPE", "STATUS", "SERVICE", "REQUESTED", "COST")
		for _, o := range orders {
			t.row(o.OrderNumber, o.ID, string(o.OrderType), string(o.Status), o.Service.Name, o.RequestedDate, money(o.TotalCost))
		}
		if err := t.flush(); err != nil {
			return err
		}
		return footer(w, p)
	})
}

func renderOrder(cmd *cobra.Command, o *domain.Order) error {
	return render(cmd, o, func(w io.Writer) error {
		t := newTable(w, "FIELD", "VALUE")
		t.row("Number", o.OrderNumber)
		t.row("ID", o.ID)
		t.row("Type", string(o.OrderType))
		t.row("Status", string(o.Status))
		t.row("Service", o.Service.Name)
		if o.RequestedBandwidthMbps != nil {
			t.row("Bandwidth", bandwidth(*o.RequestedBandwidthMbps))
		}
		t.row("Address", strings.TrimSpace(o.InstallationAddress+" "+o.PostalCode))
		t.row("Contact", fmt.Sprintf("%s <%s> %s", o.ContactPerson, o.ContactEmail, o.ContactPhone))
		t.row("Requested", o.RequestedDate)
		if o.EstimatedCompletionDate != "" {
			t.row("Estimated", o.EstimatedCompletionDate)
		}
		t.row("Cost", money(o.TotalCost))
		return t.flush()
	})
}

func footer(w io.Writer, p *domain.Pagination) error {
	if p == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "\npage %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
	return err
}

func bandwidth(mbps int) string {
	if mbps >= 1000 && mbps%1000 == 0 {
		return strconv.Itoa(mbps/1000) + " Gbps"
	}
	return strconv.Itoa(mbps) + " Mbps"
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
