package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

// printBody escribe un cuerpo JSON indentado; si no es JSON lo escribe tal cual.
func printBody(w io.Writer, body []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		fmt.Fprintln(w, string(body))
		return
	}
	fmt.Fprintln(w, buf.String())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPage(w io.Writer, page api.Page) {
	if page.Count == nil {
		return
	}
	fmt.Fprintf(w, "total: %d", *page.Count)
	if page.Previous != nil {
		fmt.Fprintf(w, " | anterior: %s", *page.Previous)
	}
	if page.Next != nil {
		fmt.Fprintf(w, " | siguiente: %s", *page.Next)
	}
	fmt.Fprintln(w)
}

// reportError imprime el error normalizado y, para validación, los mensajes por campo.
func reportError(w io.Writer, err error) {
	apiErr := api.Normalize(err)
	if apiErr.Status != 0 {
		fmt.Fprintf(w, "Error [%s, HTTP %d]: %s\n", apiErr.Kind, apiErr.Status, apiErr.Message)
	} else {
		fmt.Fprintf(w, "Error [%s]: %s\n", apiErr.Kind, apiErr.Message)
	}

	fields := apiErr.FieldErrors()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, strings.Join(fields[k], "; "))
	}

	switch apiErr.Kind {
	case domain.KindConfig, domain.KindNetwork, domain.KindUnknown:
		if apiErr.Err != nil {
			fmt.Fprintf(w, "  %v\n", apiErr.Err)
		}
	}
}
