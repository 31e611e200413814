package cmd

import (
	"github.com/Gthulhu/erp/manager/app"
	"github.com/spf13/cobra"
)

func newManagerCommand() *cobra.Command {
	var configName, configDir string
	c := &cobra.Command{
		Use:   "manager",
		Short: "Run the access manager REST server",
		RunE: func(cmd *cobra.Command, args []string) error {
			fxApp, err := app.NewRestApp(configName, configDir)
			if err != nil {
				return err
			}
			fxApp.Run()
			return fxApp.Err()
		},
	}
	c.Flags().StringVarP(&configName, "config-name", "c", "manager_config", "config file name without extension")
	c.Flags().StringVarP(&configDir, "config-dir", "p", "", "directory holding the config file")
	return c
}
