package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netondemand/portal/internal/core/domain"
)

var (
	flagServicesPage       int
	flagServicesLimit      int
	flagServicesAdjustable bool

	flagSearchName       string
	flagSearchCategory   string
	flagSearchType       string
	flagSearchMinPrice   float64
	flagSearchMaxPrice   float64
	flagSearchMinBW      int
	flagSearchMaxBW      int
	flagSearchAdjustable bool
	flagSearchPage       int
	flagSearchLimit      int
)

func init() {
	servicesListCmd.Flags().IntVar(&flagServicesPage, "page", 0, "page number (lists everything when unset)")
	servicesListCmd.Flags().IntVar(&flagServicesLimit, "limit", domain.DefaultLimit, "page size")
	servicesListCmd.Flags().BoolVar(&flagServicesAdjustable, "adjustable", false, "only services with adjustable bandwidth")

	f := servicesSearchCmd.Flags()
	f.StringVar(&flagSearchName, "name", "", "name contains (case-insensitive)")
	f.StringVar(&flagSearchCategory, "category", "", "category id")
	f.StringVar(&flagSearchType, "type", "", "service type")
	f.Float64Var(&flagSearchMinPrice, "min-price", 0, "minimum monthly price")
	f.Float64Var(&flagSearchMaxPrice, "max-price", 0, "maximum monthly price")
	f.IntVar(&flagSearchMinBW, "min-bandwidth", 0, "minimum base bandwidth in Mbps")
	f.IntVar(&flagSearchMaxBW, "max-bandwidth", 0, "maximum base bandwidth in Mbps")
	f.BoolVar(&flagSearchAdjustable, "adjustable", false, "filter on adjustable bandwidth (true or false)")
	f.IntVar(&flagSearchPage, "page", domain.DefaultPage, "page number")
	f.IntVar(&flagSearchLimit, "limit", domain.DefaultLimit, "page size")

	servicesCmd.AddCommand(servicesListCmd, servicesShowCmd, servicesCategoriesCmd, servicesTypesCmd, servicesSearchCmd)
	rootCmd.AddCommand(servicesCmd)
}

var servicesCmd = &cobra.Command{
	Use:     "services",
	Aliases: []string{"svc"},
	Short:   "Browse the service catalog",
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orderable services",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if flagServicesAdjustable {
			services, err := current.catalog.BandwidthAdjustable(current.ctx)
			if err != nil {
				return err
			}
			return renderServices(cmd, services, nil)
		}
		if flagServicesPage > 0 {
			page, err := current.catalog.ServicesPaged(current.ctx, flagServicesPage, flagServicesLimit)
			if err != nil {
				return err
			}
			return renderServices(cmd, page.Data, &page.Pagination)
		}
		services, err := current.catalog.Services(current.ctx)
		if err != nil {
			return err
		}
		return renderServices(cmd, services, nil)
	},
}

var servicesShowCmd = &cobra.Command{
	Use:   "show <service-id>",
	Short: "Show one service with its technical details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := current.catalog.Service(current.ctx, args[0])
		if err != nil {
			return err
		}
		return render(cmd, s, func(w io.Writer) error {
			t := newTable(w, "FIELD", "VALUE")
			t.row("ID", s.ID)
			t.row("Name", s.Name)
			t.row("Category", s.CategoryName)
			t.row("Type", s.ServiceType)
			t.row("Bandwidth", fmt.Sprintf("%s (%s to %s)", bandwidth(s.BaseBandwidthMbps), bandwidth(s.MinBandwidthMbps), bandwidth(s.MaxBandwidthMbps)))
			t.row("Monthly", money(s.MonthlyPriceOrBase()))
			t.row("Setup fee", money(s.SetupFee))
			t.row("Contract", fmt.Sprintf("%d months", s.ContractTermMonths))
			t.row("Provisioning", fmt.Sprintf("%d hours", s.ProvisioningTimeHours))
			if len(s.SupportedBandwidths) > 0 {
				bws := make([]string, len(s.SupportedBandwidths))
				for i, bw := range s.SupportedBandwidths {
					bws[i] = bandwidth(bw)
				}
				t.row("Supported", strings.Join(bws, ", "))
			}
			if len(s.AvailableLocations) > 0 {
				t.row("Locations", strings.Join(s.AvailableLocations, ", "))
			}
			for _, k := range sortedKeys(s.Features) {
				t.row("Feature "+k, fmt.Sprint(s.Features[k]))
			}
			return t.flush()
		})
	},
}

var servicesCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List service categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		categories, err := current.catalog.Categories(current.ctx)
		if err != nil {
			return err
		}
		return render(cmd, categories, func(w io.Writer) error {
			t := newTable(w, "ID", "NAME", "SERVICES", "ACTIVE")
			for _, c := range categories {
				t.row(c.ID, c.Name, fmt.Sprint(c.ServiceCount), yesNo(c.IsActive))
			}
			return t.flush()
		})
	},
}

var servicesTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List service types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		types, err := current.catalog.Types(current.ctx)
		if err != nil {
			return err
		}
		return render(cmd, types, func(w io.Writer) error {
			for _, typ := range types {
				if _, err := fmt.Fprintln(w, typ); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var servicesSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Filter the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := domain.ServiceSearch{
			Name:        flagSearchName,
			CategoryID:  flagSearchCategory,
			ServiceType: flagSearchType,
			Page:        flagSearchPage,
			Limit:       flagSearchLimit,
		}
		flags := cmd.Flags()
		if flags.Changed("min-price") {
			in.MinPrice = &flagSearchMinPrice
		}
		if flags.Changed("max-price") {
			in.MaxPrice = &flagSearchMaxPrice
		}
		if flags.Changed("min-bandwidth") {
			in.MinBandwidth = &flagSearchMinBW
		}
		if flags.Changed("max-bandwidth") {
			in.MaxBandwidth = &flagSearchMaxBW
		}
		if flags.Changed("adjustable") {
			in.BandwidthAdjustable = &flagSearchAdjustable
		}

		page, err := current.catalog.Search(current.ctx, in)
		if err != nil {
			return err
		}
		return renderServices(cmd, page.Data, &page.Pagination)
	},
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
