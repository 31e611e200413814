package main

import (
	"fmt"
	"os"

	"github.com/Gthulhu/erp/cmd"
)

// @title ERP Access Manager API
// @version 1.0
// @description Role-based permission service for the ERP: sign-in, user roles, the role-permission matrix and authorization audit.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
