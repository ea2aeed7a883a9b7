package ioc

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type GraphInfo struct {
	Registrations []RegistrationInfo
}

type RegistrationInfo struct {
	Contract       string
	Implementation string
	Lifecycle      string
	Dependencies   []string
	Dependents     []string
	Instantiated   bool
	PreSupplied    bool
}

// Graph describes every registration in registration order.
func (c *Container) Graph() GraphInfo {
	entries := c.internal.Entries()
	regs := make([]RegistrationInfo, 0, len(entries))

	for _, e := range entries {
		regs = append(
			regs, RegistrationInfo{
				Contract:       e.Key,
				Implementation: e.Implementation,
				Lifecycle:      e.Lifecycle,
				Dependencies:   e.Dependencies,
				Dependents:     e.Dependents,
				Instantiated:   e.Instantiated,
				PreSupplied:    e.PreSupplied,
			},
		)
	}

	return GraphInfo{Registrations: regs}
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Registrations) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, reg := range info.Registrations {
		status := "○"
		if reg.Instantiated {
			status = "●"
		}

		name := reg.Contract
		if reg.Implementation != reg.Contract {
			name += " => " + reg.Implementation
		}

		if len(reg.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s [%s]\n", status, name, reg.Lifecycle)
		} else {
			_, _ = fmt.Fprintf(
				w, "%s %s [%s] ← %s\n", status, name, reg.Lifecycle, strings.Join(reg.Dependencies, ", "),
			)
		}
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, reg := range info.Registrations {
		style := ""
		switch {
		case reg.PreSupplied:
			style = ", style=filled, fillcolor=lightgrey"
		case reg.Instantiated:
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", reg.Contract, ShortName(reg.Contract), style)
	}

	_, _ = fmt.Fprintln(w)

	for _, reg := range info.Registrations {
		for _, dep := range reg.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", reg.Contract, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

// ShortName strips the import path from a type key, keeping the package name:
// "*github.com/acme/app/store.DB" becomes "store.DB".
func ShortName(key string) string {
	key = strings.TrimLeft(key, "*")
	if idx := strings.LastIndex(key, "/"); idx != -1 {
		key = key[idx+1:]
	}
	return key
}
