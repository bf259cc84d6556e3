// visitdesk API server.
//
// @title       visitdesk API
// @version     1.0
// @description Field visit scheduling: conversation holds, confirmations, and bulk route reschedules.
// @BasePath    /
package main

import (
	"visitdesk/cmd/bootstrap"

	"go.uber.org/fx"
)

func main() {
	fx.New(bootstrap.Module()).Run()
}
