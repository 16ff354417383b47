package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/popline/popline/internal/config"
	"github.com/popline/popline/internal/keys"
	"github.com/popline/popline/internal/popup"
	"github.com/popline/popline/internal/terminal"
)

var (
	pickTitle   string
	pickIndex   int
	pickReverse bool
	pickColumns bool
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Select one line from stdin with the popup",
	Long: `Reads candidate lines from stdin, shows the popup on the controlling
terminal, and prints the chosen line to stdout.

With --columns, tab-separated fields after the first render as aligned
auxiliary columns; only the first field is printed on accept.

Exits 1 when the selection is cancelled and 2 when the popup cannot be
shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		entries, err := readCandidates(os.Stdin)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no candidates on stdin")
		}

		tty, err := terminal.Open()
		if err != nil {
			return err
		}
		restore, err := tty.MakeRaw()
		if err != nil {
			return err
		}

		dispatcher := keys.NewDispatcher(tty)
		session := popup.NewSession(tty, dispatcher, popup.SystemClipboard{}, popupOptions(cfg))

		index := pickIndex
		if pickReverse && !cmd.Flags().Changed("index") {
			index = len(entries) - 1
		}

		res := session.Activate(popup.Request{
			Title:      pickTitle,
			Entries:    entries,
			Index:      index,
			Reverse:    pickReverse,
			HasColumns: pickColumns,
		})

		dispatcher.Close()
		restore()

		switch res.Result {
		case popup.ResultUse, popup.ResultSelect:
			text := res.Text
			if pickColumns {
				text = popup.EntryDisplay(text)
			}
			fmt.Println(text)
			return nil
		case popup.ResultCancel:
			os.Exit(1)
		default:
			os.Exit(2)
		}
		return nil
	},
}

// readCandidates reads one candidate per line, skipping blanks. With
// --columns each line is re-encoded so fields after the first become
// popup columns.
func readCandidates(r *os.File) ([]string, error) {
	var entries []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if pickColumns {
			if display, cols, ok := strings.Cut(line, "\t"); ok {
				line = popup.EncodeEntry(display, display, strings.Split(cols, "\t")...)
			} else {
				line = popup.EncodeEntry(line, line)
			}
		}
		entries = append(entries, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return entries, nil
}

func init() {
	pickCmd.Flags().StringVarP(&pickTitle, "title", "t", "", "title shown in the popup border")
	pickCmd.Flags().IntVarP(&pickIndex, "index", "i", 0, "initially selected row")
	pickCmd.Flags().BoolVarP(&pickReverse, "reverse", "r", false, "search upward by default, select the last row")
	pickCmd.Flags().BoolVarP(&pickColumns, "columns", "c", false, "render tab-separated fields as aligned columns")
}
