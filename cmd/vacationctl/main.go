// Command vacationctl - клиент командной строки для API сервиса отпусков.
package main

import (
	"fmt"
	"os"

	"github.com/maynagashev/vacationkeeper/internal/api"
)

func main() {
	cmd := newRootCmd(api.NewHTTPClient)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}
