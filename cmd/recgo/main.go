package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/recgo"
	"github.com/hupe1980/recgo/model"
	"github.com/hupe1980/recgo/stats"
)

var (
	cfgPath    string
	cfg        *Config
	logger     *recgo.Logger
	flagSource string
	flagFile   string
	flagRoot   string
	topK       int

	rootCmd = &cobra.Command{
		Use:   "recgo",
		Short: "An embedded record store with an ordered age index and a relation graph",
		Long: `recgo loads a CSV dataset of records into an in-memory store backed by
a height-balanced age index and a relation graph, then answers point,
range and graph queries against it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if flagSource != "" {
				cfg.Dataset.Source = flagSource
			}
			if flagFile != "" {
				cfg.Dataset.File = flagFile
			}
			if flagRoot != "" {
				cfg.Dataset.Root = flagRoot
			}
			logger = newLogger(cfg)
			return nil
		},
	}

	loadCmd = &cobra.Command{
		Use:   "load",
		Short: "Load the dataset and report ingest statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, loadStats, err := loadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			fmt.Printf("rows=%d loaded=%d skipped=%d duplicates=%d elapsed=%s\n",
				loadStats.Rows, loadStats.Loaded, loadStats.Skipped,
				loadStats.Duplicates, loadStats.Elapsed.Round(time.Millisecond))
			fmt.Printf("records=%d indexed=%d\n", store.Len(), store.IndexedLen())
			return nil
		},
	}

	getCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Look up a single record by identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			store, _, err := loadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			record, err := store.Get(id)
			if err != nil {
				return err
			}
			printRecord(record)
			return nil
		},
	}

	rangeCmd = &cobra.Command{
		Use:   "range [min-age] [max-age]",
		Short: "Query records by age range via the ordered index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minAge, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid min age %q", args[0])
			}
			maxAge, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid max age %q", args[1])
			}
			store, _, err := loadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			records := store.RangeQuery(cmd.Context(), minAge, maxAge)
			for _, r := range records {
				printRecord(r)
			}
			fmt.Printf("%d records in [%d, %d]\n", len(records), minAge, maxAge)
			return nil
		},
	}

	pathCmd = &cobra.Command{
		Use:   "path [from-id] [to-id]",
		Short: "Find the shortest relation path between two records",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			to, err := parseRecordID(args[1])
			if err != nil {
				return err
			}
			store, _, err := loadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			path, ok := store.ShortestPath(cmd.Context(), from, to)
			if !ok {
				fmt.Printf("no path from %d to %d\n", from, to)
				return nil
			}
			for i, r := range path {
				if i > 0 {
					fmt.Print(" -> ")
				}
				fmt.Print(uint32(r.ID))
			}
			fmt.Printf("\n%d hops\n", len(path)-1)
			return nil
		},
	}

	neighborsCmd = &cobra.Command{
		Use:   "neighbors [id]",
		Short: "List a record's direct relations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			store, _, err := loadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			neighbors := store.Neighbors(id)
			for _, r := range store.GetMany(neighbors) {
				printRecord(r)
			}
			fmt.Printf("degree=%d clustering=%.3f\n",
				store.Degree(id), store.ClusteringCoefficient(id))
			return nil
		},
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print dataset aggregations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := loadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			printStats(store)
			return nil
		},
	}

	benchCmd = &cobra.Command{
		Use:   "bench [min-age] [max-age]",
		Short: "Compare the indexed range query against a linear scan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minAge, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid min age %q", args[0])
			}
			maxAge, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid max age %q", args[1])
			}
			store, _, err := loadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			runBench(cmd.Context(), store, minAge, maxAge)
			return nil
		},
	}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Load the dataset and verify store consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, loadStats, err := loadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if err := store.Verify(); err != nil {
				return err
			}
			minAge, maxAge, _ := store.AgeBounds()
			fmt.Printf("OK: %d records (%d indexed, ages %d-%d), %d skipped rows\n",
				store.Len(), store.IndexedLen(), minAge, maxAge, loadStats.Skipped)
			return nil
		},
	}

	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), cfg, logger)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "dataset source: local, s3 or minio")
	rootCmd.PersistentFlags().StringVar(&flagFile, "data", "", "dataset object name, e.g. people.csv.gz")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "root directory for the local source")

	statsCmd.Flags().IntVar(&topK, "top", 10, "number of entries per ranking")

	rootCmd.AddCommand(loadCmd, getCmd, rangeCmd, pathCmd, neighborsCmd,
		statsCmd, benchCmd, checkCmd, tuiCmd)
}

func main() {
	exitOnError(rootCmd.Execute())
}

func parseRecordID(raw string) (model.RecordID, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", raw)
	}
	return model.RecordID(v), nil
}

func printRecord(r model.Record) {
	age := "unknown"
	if r.HasAge() {
		age = strconv.Itoa(r.Age)
	}
	fmt.Printf("#%d gender=%s age=%s education=%q music=%q friends=%d\n",
		uint32(r.ID), r.Gender, age, r.Education, r.Music, len(r.Friends))
}

func printStats(store *recgo.Store) {
	fmt.Printf("records: %d (indexed: %d)\n\n", store.Len(), store.IndexedLen())

	fmt.Println("By gender:")
	for gender, count := range stats.CountByGender(store) {
		fmt.Printf("  %-10s %d\n", gender, count)
	}

	fmt.Println("\nAverage age by gender:")
	for gender, avg := range stats.AverageAgeByGender(store) {
		fmt.Printf("  %-10s %.1f\n", gender, avg)
	}

	fmt.Println("\nTop educations:")
	for _, e := range stats.TopEducations(store, topK) {
		fmt.Printf("  %-24s %d\n", e.Label, e.Count)
	}

	fmt.Println("\nTop music preferences:")
	for _, e := range stats.TopMusic(store, topK) {
		fmt.Printf("  %-24s %d\n", e.Label, e.Count)
	}

	fmt.Println("\nMost connected:")
	for _, e := range stats.MostConnected(store, topK) {
		fmt.Printf("  #%-8d degree=%d\n", uint32(e.ID), e.Degree)
	}

	fmt.Printf("\naverage degree: %.2f, median degree: %d\n",
		stats.AverageDegree(store), stats.MedianDegree(store))
}

func runBench(ctx context.Context, store *recgo.Store, minAge, maxAge int) {
	const rounds = 10

	start := time.Now()
	var indexed []model.Record
	for range rounds {
		indexed = store.RangeQuery(ctx, minAge, maxAge)
	}
	indexedAvg := time.Since(start) / rounds

	start = time.Now()
	var scanned []model.Record
	for range rounds {
		scanned = store.LinearScanRange(ctx, minAge, maxAge)
	}
	linearAvg := time.Since(start) / rounds

	fmt.Printf("indexed: %d records in %s (avg of %d runs)\n", len(indexed), indexedAvg, rounds)
	fmt.Printf("linear:  %d records in %s (avg of %d runs)\n", len(scanned), linearAvg, rounds)
	if indexedAvg > 0 {
		fmt.Printf("speedup: %.1fx\n", float64(linearAvg)/float64(indexedAvg))
	}
}
