package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

type column struct {
	title string
	min   int
	flex  bool
	value func(i int, e entity.Entreprise) string
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 120
	}
	return w
}

// renderTable tabla con bordes; las columnas flexibles se reparten el ancho sobrante y se truncan.
func renderTable(results []entity.Entreprise, opcos map[string]string, width int) string {
	cols := []column{
		{title: "N°", min: 3, value: func(i int, _ entity.Entreprise) string { return strconv.Itoa(i + 1) }},
		{title: "Entreprise", min: 16, flex: true, value: func(_ int, e entity.Entreprise) string { return e.Nom }},
		{title: "Téléphone", min: 14, value: func(_ int, e entity.Entreprise) string { return e.Telephone }},
		{title: "Dirigeant", min: 12, flex: true, value: func(_ int, e entity.Entreprise) string { return e.Dirigeant }},
		{title: "Effectif", min: 10, value: func(_ int, e entity.Entreprise) string { return e.Effectif }},
	}
	if opcos != nil {
		cols = append(cols, column{title: "OPCO", min: 12, value: func(_ int, e entity.Entreprise) string { return opcos[e.Siret] }})
	}
	cols = append(cols, column{title: "Pappers", min: 20, flex: true, value: func(_ int, e entity.Entreprise) string { return e.PappersURL }})

	widths := make([]int, len(cols))
	natural := make([]int, len(cols))
	for j, c := range cols {
		natural[j] = runewidth.StringWidth(c.title)
		for i, e := range results {
			if w := runewidth.StringWidth(c.value(i, e)); w > natural[j] {
				natural[j] = w
			}
		}
		widths[j] = natural[j]
		if c.flex && widths[j] > c.min {
			widths[j] = c.min
		}
	}

	// bordes: "│ " + " │ " entre columnas + " │"
	avail := width - (3*len(cols) + 1)
	used := 0
	for _, w := range widths {
		used += w
	}
	for j, c := range cols {
		if !c.flex || used >= avail {
			continue
		}
		grow := natural[j] - widths[j]
		if grow > avail-used {
			grow = avail - used
		}
		widths[j] += grow
		used += grow
	}

	var b strings.Builder
	line := func(left, mid, right string) {
		b.WriteString(left)
		for j, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if j < len(widths)-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right + "\n")
	}
	row := func(cells []string) {
		b.WriteString("│")
		for j, cell := range cells {
			cell = runewidth.Truncate(cell, widths[j], "…")
			b.WriteString(" " + runewidth.FillRight(cell, widths[j]) + " │")
		}
		b.WriteString("\n")
	}

	line("┌", "┬", "┐")
	titles := make([]string, len(cols))
	for j, c := range cols {
		titles[j] = c.title
	}
	row(titles)
	line("├", "┼", "┤")
	for i, e := range results {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = c.value(i, e)
		}
		row(cells)
	}
	line("└", "┴", "┘")
	return b.String()
}
