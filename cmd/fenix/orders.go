package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/internal/application/usecase"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/pdf"
)

func (c *cli) orderCmds() []*cobra.Command {
	var (
		customer int64
		items    []string
		status   string
	)
	place := &cobra.Command{
		Use:   "place",
		Short: "Registra un pedido con sus líneas (--item producto:cantidad:precio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := dto.OrderRequest{Customer: customer, Status: status}
			for _, raw := range items {
				line, err := parseItem(raw)
				if err != nil {
					return err
				}
				in.Items = append(in.Items, line)
			}
			order, err := usecase.NewOrderUseCase(c.gw.Orders, c.log.Component("orders")).Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			c.printOrder(order)
			return nil
		},
	}
	place.Flags().Int64Var(&customer, "customer", 0, "id del cliente")
	place.Flags().StringArrayVar(&items, "item", nil, "línea producto:cantidad:precio (repetible)")
	place.Flags().StringVar(&status, "status", "", "estado inicial (por defecto PENDIENTE)")

	setStatus := &cobra.Command{
		Use:   "status ID ESTADO",
		Short: "Cambia el estado de un pedido sin tocar sus líneas",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := usecase.NewOrderUseCase(c.gw.Orders, c.log.Component("orders")).SetStatus(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			c.printOrder(order)
			return nil
		},
	}

	var dir string
	receipt := &cobra.Command{
		Use:   "receipt ID",
		Short: "Genera el comprobante PDF de un pedido",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			uc := usecase.NewReceiptUseCase(
				c.gw.Orders,
				c.gw.Customers,
				pdf.NewReceiptGenerator(language.Spanish),
				c.saver(dir),
				c.log.Component("receipt"),
			)
			path, err := uc.Generate(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Comprobante guardado en %s\n", path)
			return nil
		},
	}
	receipt.Flags().StringVar(&dir, "dir", "", "carpeta destino (por defecto DOWNLOAD_DIR)")

	return []*cobra.Command{place, setStatus, receipt}
}

func (c *cli) printOrder(o *entity.Order) {
	customer := o.CustomerName
	if customer == "" {
		customer = o.Customer.String()
	}
	fmt.Fprintf(c.out, "Pedido #%d  cliente: %s  estado: %s\n", o.ID, customer, o.Status)
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCTO\tCANT\tPRECIO\tSUBTOTAL")
	for _, it := range o.Items {
		name := it.ProductName
		if name == "" {
			name = it.Product.String()
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, it.Quantity, it.Price.StringFixed(2), it.Subtotal().StringFixed(2))
	}
	_ = tw.Flush()
	fmt.Fprintf(c.out, "Total: %s\n", o.TotalAmount.StringFixed(2))
}

func (c *cli) staffCmds() []*cobra.Command {
	reactivate := &cobra.Command{
		Use:   "reactivate ID",
		Short: "Vuelve a activar una usuaria desactivada",
		Args:  cobra.ExactArgs(1),
		RunE: c.withID(func(ctx context.Context, id int64) (*api.Response, error) {
			return c.gw.StaffUsers.Reactivate(ctx, id)
		}),
	}
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Totales de usuarias por rol y estado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.gw.StaffUsers.GetStatistics(cmd.Context())
			if err != nil {
				return err
			}
			st, err := api.Decode[entity.StaffStatistics](resp)
			if err != nil {
				return err
			}
			c.printStatistics(st)
			return nil
		},
	}
	return []*cobra.Command{reactivate, stats}
}

func (c *cli) printStatistics(st entity.StaffStatistics) {
	fmt.Fprintf(c.out, "Usuarias: %d (activas %d, inactivas %d)\n", st.Total, st.Active, st.Inactive)
	if st.AverageSalary != nil {
		fmt.Fprintf(c.out, "Salario promedio: %s\n", pdf.NewReceiptGenerator(language.Spanish).FormatMoney(*st.AverageSalary))
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROL\tCANTIDAD")
	for _, g := range st.ByRole {
		fmt.Fprintf(tw, "%s\t%d\n", g.Role, g.Count)
	}
	fmt.Fprintln(tw, "ESTADO\tCANTIDAD")
	for _, g := range st.ByStatus {
		fmt.Fprintf(tw, "%s\t%d\n", g.Status, g.Count)
	}
	_ = tw.Flush()
}
