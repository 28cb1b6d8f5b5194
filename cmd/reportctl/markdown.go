package main

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/patrickwarner/pubreport/internal/report"
)

// writePublication renders a publication preview as Markdown.
func writePublication(w io.Writer, res *lens.PublicationResult) error {
	p := res.Publication
	md := markdown.NewMarkdown(w)

	title := p.Metadata.Name
	if title == "" {
		title = "Publication " + p.ID
	}
	md.H1(title)
	md.PlainText("")

	follows := "no"
	if res.ViewerFollowsAuthor() {
		follows = "yes"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"ID", "`" + p.ID + "`"},
			{"Author", p.Profile.DisplayName() + " (@" + p.Profile.Handle + ")"},
			{"Posted", p.CreatedAt.UTC().Format("2006-01-02 15:04 MST")},
			{"Comments", strconv.Itoa(p.Stats.TotalAmountOfComments)},
			{"Mirrors", strconv.Itoa(p.Stats.TotalAmountOfMirrors)},
			{"Collects", strconv.Itoa(p.Stats.TotalAmountOfCollects)},
			{"You follow the author", follows},
		},
	})
	md.PlainText("")

	md.H2("Content")
	md.PlainText(p.Metadata.Content)
	if p.Hidden {
		md.PlainText("")
		md.Note("This publication has been hidden by its author.")
	}

	return md.Build()
}

// writeReasons renders the reason catalog as Markdown.
func writeReasons(w io.Writer, c *report.Catalog) error {
	md := markdown.NewMarkdown(w)
	md.H1("Report reasons")
	md.PlainText("")

	rows := make([][]string, 0)
	for _, cat := range c.Categories {
		for _, sub := range cat.Subcategories {
			rows = append(rows, []string{"`" + cat.ID + "`", "`" + sub.ID + "`", cat.Label + ": " + sub.Label})
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Reason", "Sub-reason", "Description"},
		Rows:   rows,
	})
	return md.Build()
}
