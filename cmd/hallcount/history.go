package main

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/hallcount/internal/storage"
)

var (
	historySearch string
	historySort   string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past hall scans",
	Long: `Lists stored hall scans. --search matches part of the session name
(case-insensitive) or the record ID.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Filter by session name or record ID")
	historyCmd.Flags().StringVar(&historySort, "sort", "newest", "Sort order: newest, oldest, highest, lowest")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum number of records (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	sort, err := storage.ParseSortOrder(historySort)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListCountRecords(cmd.Context(), storage.ListFilter{
		Search: historySearch,
		Sort:   sort,
		Limit:  historyLimit,
	})
	if err != nil {
		return err
	}

	return writeHistory(cmd.OutOrStdout(), records)
}
