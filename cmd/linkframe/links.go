package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phanxgames/linkframe"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listLimit int

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Manage pinned and recent links",
}

var linksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pinned and recent links",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		book, closeBook, err := openBook(listLimit)
		if err != nil {
			return err
		}
		defer closeBook()

		lists, err := book.Lists()
		if err != nil {
			return err
		}
		return printLists(cmd.OutOrStdout(), lists)
	},
}

var linksAddCmd = &cobra.Command{
	Use:   "add <url> [title]",
	Short: "Record a visit to a link",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		if len(args) == 2 {
			title = args[1]
		}
		book, closeBook, err := openBook(0)
		if err != nil {
			return err
		}
		defer closeBook()

		l, err := book.Visit(args[0], title, time.Now().UnixMilli())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", l.URL)
		return nil
	},
}

var linksPinCmd = &cobra.Command{
	Use:   "pin <url>",
	Short: "Pin a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPinned(cmd.OutOrStdout(), args[0], true)
	},
}

var linksUnpinCmd = &cobra.Command{
	Use:   "unpin <url>",
	Short: "Unpin a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPinned(cmd.OutOrStdout(), args[0], false)
	},
}

var linksRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Forget a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, closeBook, err := openBook(0)
		if err != nil {
			return err
		}
		defer closeBook()
		return book.Remove(args[0])
	},
}

var linksImportCmd = &cobra.Command{
	Use:   "import <file.yml>",
	Short: "Import links from a YAML file",
	Long: `Imports links from YAML, either a list or a document with a "links" key:

  links:
    - url: https://example.com
      title: Example
      pinned: true

A missing timestamp (unix milliseconds) is set to the import time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		links, err := parseLinkFile(data, time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		book, closeBook, err := openBook(0)
		if err != nil {
			return err
		}
		defer closeBook()

		var errs []error
		imported := 0
		for _, l := range links {
			if err := book.Add(l); err != nil {
				errs = append(errs, err)
				continue
			}
			imported++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d links\n", imported, len(links))
		return errors.Join(errs...)
	},
}

func init() {
	linksListCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "number of recent links (default from config)")
	linksCmd.AddCommand(linksListCmd, linksAddCmd, linksPinCmd, linksUnpinCmd, linksRemoveCmd, linksImportCmd)
}

// openBook opens the store and wraps it in a LinkBook. A non-positive limit
// uses the configured recent-limit.
func openBook(limit int) (*linkframe.LinkBook, func(), error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = cfg.RecentLimit
	}
	return linkframe.NewLinkBook(store, limit), func() { store.Close() }, nil
}

func setPinned(out io.Writer, rawURL string, pinned bool) error {
	book, closeBook, err := openBook(0)
	if err != nil {
		return err
	}
	defer closeBook()

	l, err := book.SetPinned(rawURL, pinned)
	if err != nil {
		return err
	}
	state := "unpinned"
	if l.Pinned {
		state = "pinned"
	}
	fmt.Fprintf(out, "%s %s\n", state, l.URL)
	return nil
}

func printLists(out io.Writer, lists linkframe.LinkLists) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	section := func(name string, links []linkframe.Link) {
		fmt.Fprintf(tw, "%s (%d)\n", strings.ToUpper(name), len(links))
		for _, l := range links {
			pin := " "
			if l.Pinned {
				pin = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", pin, l.Title, l.URL,
				time.UnixMilli(l.Timestamp).Format(time.DateTime))
		}
	}
	section("pinned", lists.Pinned)
	section("recent", lists.Recent)
	return tw.Flush()
}

type linkFile struct {
	Links []linkframe.Link `yaml:"links"`
}

// parseLinkFile accepts a YAML list of links or a document with a links key.
func parseLinkFile(data []byte, now int64) ([]linkframe.Link, error) {
	var links []linkframe.Link
	if err := yaml.Unmarshal(data, &links); err != nil {
		var doc linkFile
		if docErr := yaml.Unmarshal(data, &doc); docErr != nil {
			return nil, fmt.Errorf("parsing links: %w", docErr)
		}
		links = doc.Links
	}
	if len(links) == 0 {
		return nil, errors.New("no links found")
	}
	for i := range links {
		if links[i].Timestamp == 0 {
			links[i].Timestamp = now
		}
	}
	return links, nil
}
