package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blademainer/screen-capture/internal/config"
	"github.com/blademainer/screen-capture/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List finished recordings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		dir := cfg.OutputDir
		if dir == "" {
			dir = storage.DefaultDir()
		}
		recs, err := storage.ListRecordings(dir)
		if err != nil {
			return err
		}
		for _, r := range recs {
			fmt.Printf("%s\t%d\t%s\n", r.Name, r.Size, r.ModTime.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
