// Command server runs the postboard HTTP API.
//
// @title Postboard API
// @version 1.0
// @description Users and posts CRUD service.
// @host localhost:8250
// @BasePath /
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "postboard",
	Short: "Users and posts API",
	// 不带子命令时直接启动服务
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
