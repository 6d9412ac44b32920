package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

var (
	flagOrderService       string
	flagOrderType          string
	flagOrderBandwidth     int
	flagOrderAddress       string
	flagOrderPostalCode    string
	flagOrderContact       string
	flagOrderPhone         string
	flagOrderEmail         string
	flagOrderDate          string
	flagOrderRequirements  string
	flagOrderIdempotentKey string

	flagOrderByNumber bool

	flagOrdersStatus  string
	flagOrdersType    string
	flagOrdersService string
	flagOrdersFrom    string
	flagOrdersTo      string
	flagOrdersMinCost float64
	flagOrdersMaxCost float64
	flagOrdersPage    int
	flagOrdersLimit   int
	flagOrdersRecentN int
)

func init() {
	f := ordersCreateCmd.Flags()
	f.StringVar(&flagOrderService, "service", "", "service id (required)")
	f.StringVar(&flagOrderType, "type", string(domain.OrderTypeNewService), "NEW_SERVICE, UPGRADE, DOWNGRADE, CANCELLATION or MODIFICATION")
	f.IntVar(&flagOrderBandwidth, "bandwidth", 0, "requested bandwidth in Mbps")
	f.StringVar(&flagOrderAddress, "address", "", "installation address (required)")
	f.StringVar(&flagOrderPostalCode, "postal-code", "", "installation postal code (required)")
	f.StringVar(&flagOrderContact, "contact", "", "contact person (required)")
	f.StringVar(&flagOrderPhone, "phone", "", "contact phone (required)")
	f.StringVar(&flagOrderEmail, "email", "", "contact email (required)")
	f.StringVar(&flagOrderDate, "date", "", "requested date, YYYY-MM-DD (required)")
	f.StringVar(&flagOrderRequirements, "requirements", "", "special requirements")
	f.StringVar(&flagOrderIdempotentKey, "idempotency-key", "", "key that makes a retried submission return the first order")
	for _, name := range []string{"service", "address", "postal-code", "contact", "phone", "email", "date"} {
		_ = ordersCreateCmd.MarkFlagRequired(name)
	}

	ordersShowCmd.Flags().BoolVar(&flagOrderByNumber, "number", false, "treat the argument as an order number")

	sf := ordersSearchCmd.Flags()
	sf.StringVar(&flagOrdersStatus, "status", "", "order status")
	sf.StringVar(&flagOrdersType, "type", "", "order type")
	sf.StringVar(&flagOrdersService, "service", "", "service id")
	sf.StringVar(&flagOrdersFrom, "from", "", "created on or after, YYYY-MM-DD")
	sf.StringVar(&flagOrdersTo, "to", "", "created on or before, YYYY-MM-DD")
	sf.Float64Var(&flagOrdersMinCost, "min-cost", 0, "minimum total cost")
	sf.Float64Var(&flagOrdersMaxCost, "max-cost", 0, "maximum total cost")
	sf.IntVar(&flagOrdersPage, "page", domain.DefaultPage, "page number")
	sf.IntVar(&flagOrdersLimit, "limit", domain.DefaultLimit, "page size")

	ordersRecentCmd.Flags().IntVarP(&flagOrdersRecentN, "limit", "n", 0, "number of orders (backend default when unset)")

	ordersCmd.AddCommand(ordersCreateCmd, ordersShowCmd, ordersSearchCmd, ordersCancelCmd,
		ordersPendingCmd, ordersRecentCmd, ordersStatsCmd)
	rootCmd.AddCommand(ordersCmd)
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Place and track orders",
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := time.Parse(time.DateOnly, flagOrderDate); err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", flagOrderDate)
		}
		orderType := domain.OrderType(strings.ToUpper(flagOrderType))
		switch orderType {
		case domain.OrderTypeNewService, domain.OrderTypeUpgrade, domain.OrderTypeDowngrade,
			domain.OrderTypeCancellation, domain.OrderTypeModification:
		default:
			return fmt.Errorf("invalid --type %q", flagOrderType)
		}

		order := domain.CreateOrder{
			ServiceID:           flagOrderService,
			OrderType:           orderType,
			InstallationAddress: flagOrderAddress,
			PostalCode:          flagOrderPostalCode,
			ContactPerson:       flagOrderContact,
			ContactPhone:        flagOrderPhone,
			ContactEmail:        flagOrderEmail,
			RequestedDate:       flagOrderDate,
			SpecialRequirements: flagOrderRequirements,
		}
		if flagOrderBandwidth > 0 {
			bw := flagOrderBandwidth
			order.RequestedBandwidthMbps = &bw
		}
		res, err := current.orders.Create(current.ctx, ports.CreateOrderInput{
			SessionID:      current.profile,
			UserID:         current.userID(),
			IdempotencyKey: flagOrderIdempotentKey,
			Order:          order,
		})
		if err != nil {
			return err
		}
		return render(cmd, res, func(w io.Writer) error {
			verb := "Created"
			if res.AlreadyExisted {
				verb = "Already submitted"
			}
			_, err := fmt.Fprintf(w, "%s order %s (%s), status %s\n", verb, res.Order.OrderNumber, res.Order.ID, res.Order.Status)
			return err
		})
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			o   *domain.Order
			err error
		)
		if flagOrderByNumber {
			o, err = current.orders.GetByNumber(current.ctx, args[0])
		} else {
			o, err = current.orders.Get(current.ctx, args[0])
		}
		if err != nil {
			return err
		}
		return renderOrder(cmd, o)
	},
}

var ordersSearchCmd = &cobra.Command{
	Use:     "search",
	Aliases: []string{"list"},
	Short:   "Search the company's orders",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := domain.OrderSearch{
			Status:    domain.OrderStatus(strings.ToUpper(flagOrdersStatus)),
			OrderType: domain.OrderType(strings.ToUpper(flagOrdersType)),
			ServiceID: flagOrdersService,
			StartDate: flagOrdersFrom,
			EndDate:   flagOrdersTo,
			Page:      flagOrdersPage,
			Limit:     flagOrdersLimit,
		}
		if cmd.Flags().Changed("min-cost") {
			in.MinCost = &flagOrdersMinCost
		}
		if cmd.Flags().Changed("max-cost") {
			in.MaxCost = &flagOrdersMaxCost
		}

		page, err := current.orders.Search(current.ctx, in)
		if err != nil {
			return err
		}
		return renderOrders(cmd, page.Data, &page.Pagination)
	},
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel an order that has not reached a final state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := current.orders.Cancel(current.ctx, current.userID(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, o, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Order %s is now %s\n", o.OrderNumber, o.Status)
			return err
		})
	},
}

var ordersPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List orders still in progress",
	RunE: func(cmd *cobra.Command, _ []string) error {
		orders, err := current.orders.Pending(current.ctx)
		if err != nil {
			return err
		}
		return renderOrders(cmd, orders, nil)
	},
}

var ordersRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent orders",
	RunE: func(cmd *cobra.Command, _ []string) error {
		orders, err := current.orders.Recent(current.ctx, flagOrdersRecentN)
		if err != nil {
			return err
		}
		return renderOrders(cmd, orders, nil)
	},
}

var ordersStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show order statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := current.orders.Statistics(current.ctx)
		if err != nil {
			return err
		}
		return render(cmd, stats, func(w io.Writer) error {
			t := newTable(w, "FIELD", "VALUE")
			t.row("Total order value", strings.TrimSpace(money(stats.TotalOrderValue)+" "+stats.Currency))
			t.row("Pending orders", fmt.Sprint(stats.PendingOrdersCount))
			t.row("Recent orders", fmt.Sprint(stats.RecentOrdersCount))
			return t.flush()
		})
	},
}
