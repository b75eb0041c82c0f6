// Command fenix es la consola de administración de la tienda Fenix: inicia sesión
// contra el backend y opera sobre categorías, productos, clientes, usuarias y pedidos.
package main

import (
	"context"
	"os"
)

func main() {
	root, c := newRootCmd(os.Stdout, os.Stderr)
	if err := execute(context.Background(), root, c); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
