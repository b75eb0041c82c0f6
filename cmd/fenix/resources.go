package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fenix-admin/internal/application/usecase"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/download"
)

// resourceDef colección del backend expuesta como subcomando.
type resourceDef struct {
	name     string
	short    string
	resource func(*api.Gateways) *api.Resource
	exporter func(*api.Gateways) api.Exporter // nil = sin export CSV
	extra    func(*cli) []*cobra.Command
}

func resources() []resourceDef {
	return []resourceDef{
		{
			name:     "categories",
			short:    "Categorías de producto",
			resource: func(g *api.Gateways) *api.Resource { return g.Categories.Resource },
		},
		{
			name:     "products",
			short:    "Productos (multipart, --file image=ruta)",
			resource: func(g *api.Gateways) *api.Resource { return g.Products.Resource },
			exporter: func(g *api.Gateways) api.Exporter { return g.Products },
		},
		{
			name:     "customers",
			short:    "Clientes",
			resource: func(g *api.Gateways) *api.Resource { return g.Customers.Resource },
			exporter: func(g *api.Gateways) api.Exporter { return g.Customers },
		},
		{
			name:     "usuarias",
			short:    "Usuarias del personal (multipart, --file avatar=ruta)",
			resource: func(g *api.Gateways) *api.Resource { return g.StaffUsers.Resource },
			exporter: func(g *api.Gateways) api.Exporter { return g.StaffUsers },
			extra:    (*cli).staffCmds,
		},
		{
			name:     "orders",
			short:    "Pedidos",
			resource: func(g *api.Gateways) *api.Resource { return g.Orders.Resource },
			exporter: func(g *api.Gateways) api.Exporter { return g.Orders },
			extra:    (*cli).orderCmds,
		},
		{
			name:     "order-items",
			short:    "Líneas de pedido",
			resource: func(g *api.Gateways) *api.Resource { return g.OrderItems.Resource },
			exporter: func(g *api.Gateways) api.Exporter { return g.OrderItems },
		},
	}
}

func (c *cli) resourceCmd(def resourceDef) *cobra.Command {
	cmd := &cobra.Command{Use: def.name, Short: def.short}

	var params []string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista la colección (--param clave=valor para filtrar)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			resp, err := def.resource(c.gw).GetAll(cmd.Context(), p)
			if err != nil {
				return err
			}
			items, page, err := api.UnwrapPage[map[string]any](resp)
			if err != nil {
				return err
			}
			if err := printJSON(c.out, items); err != nil {
				return err
			}
			printPage(c.errOut, page)
			return nil
		},
	}
	list.Flags().StringArrayVar(&params, "param", nil, "filtro clave=valor (repetible)")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Muestra un registro",
		Args:  cobra.ExactArgs(1),
		RunE: c.withID(func(ctx context.Context, id int64) (*api.Response, error) {
			return def.resource(c.gw).GetByID(ctx, id)
		}),
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Elimina un registro",
		Args:  cobra.ExactArgs(1),
		RunE: c.withID(func(ctx context.Context, id int64) (*api.Response, error) {
			return def.resource(c.gw).Delete(ctx, id)
		}),
	}

	cmd.AddCommand(
		list,
		get,
		c.writeCmd("create", "Crea un registro", false, func(ctx context.Context, _ int64, attrs api.Attrs) (*api.Response, error) {
			return def.resource(c.gw).Create(ctx, attrs)
		}),
		c.writeCmd("update ID", "Reemplaza un registro (PUT)", true, func(ctx context.Context, id int64, attrs api.Attrs) (*api.Response, error) {
			return def.resource(c.gw).Update(ctx, id, attrs)
		}),
		c.writeCmd("patch ID", "Actualiza campos de un registro (PATCH)", true, func(ctx context.Context, id int64, attrs api.Attrs) (*api.Response, error) {
			return def.resource(c.gw).PartialUpdate(ctx, id, attrs)
		}),
		del,
	)
	if def.exporter != nil {
		cmd.AddCommand(c.exportCmd(def))
	}
	if def.extra != nil {
		cmd.AddCommand(def.extra(c)...)
	}
	return cmd
}

// withID RunE que parsea el ID del primer argumento e imprime la respuesta.
func (c *cli) withID(call func(ctx context.Context, id int64) (*api.Response, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		resp, err := call(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(resp.Body) == 0 {
			fmt.Fprintf(c.out, "OK (HTTP %d)\n", resp.Status)
			return nil
		}
		printBody(c.out, resp.Body)
		return nil
	}
}

func (c *cli) writeCmd(use, short string, withID bool, call func(context.Context, int64, api.Attrs) (*api.Response, error)) *cobra.Command {
	var wf writeFlags
	args := cobra.NoArgs
	if withID {
		args = cobra.ExactArgs(1)
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if withID {
				var err error
				if id, err = parseID(args[0]); err != nil {
					return err
				}
			}
			attrs, cleanup, err := wf.attrs(c.fs)
			if err != nil {
				return err
			}
			defer cleanup()
			resp, err := call(cmd.Context(), id, attrs)
			if err != nil {
				return err
			}
			printBody(c.out, resp.Body)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&wf.fields, "field", nil, "atributo clave=valor como texto (repetible)")
	cmd.Flags().StringArrayVar(&wf.raws, "raw", nil, "atributo clave=<json> (repetible)")
	cmd.Flags().StringArrayVar(&wf.files, "file", nil, "adjunto clave=ruta (repetible)")
	return cmd
}

func (c *cli) exportCmd(def resourceDef) *cobra.Command {
	var latin1 bool
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Descarga la colección como CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewExportUseCase(c.saver(dir), latin1)
			path, err := uc.Export(cmd.Context(), def.exporter(c.gw), def.name+".csv")
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Exportado en %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latin1, "latin1", false, "guardar en Windows-1252 (Excel en español)")
	cmd.Flags().StringVar(&dir, "dir", "", "carpeta destino (por defecto DOWNLOAD_DIR)")
	return cmd
}

func (c *cli) saver(dir string) *download.Saver {
	if dir == "" {
		dir = c.cfg.Download.Dir
	}
	return download.NewSaver(c.fs, dir, c.log.Component("download"))
}
