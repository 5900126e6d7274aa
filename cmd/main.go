package main

import "github.com/Saadsid007/task-dashboard/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	defer app.DisconnectPostgres()

	app.MustListenAndServeHTTP()
}
