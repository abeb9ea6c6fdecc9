package main

import (
	"github.com/dineeasy/order-svc/internal/app"
	"github.com/dineeasy/order-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
