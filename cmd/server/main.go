package main

import "crewpay/internal/app/server"

func main() {
	server.Run()
}
