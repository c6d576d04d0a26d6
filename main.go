package main

import (
	"log"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

//	@title			Biblio API
//	@version		1.0
//	@description	Library management service exposing books catalog, members and lending workflows.
//	@contact.name	API Support
//	@license.name	MIT
//	@license.url	https://github.com/jeamon/biblio-api/blob/main/LICENSE
//	@basePath		/
func main() {
	app, err := NewApp()
	if err != nil {
		log.Fatal("application failed to initialized: ", err)
	}
	err = app.Run()
	if err != nil {
		log.Fatal("application exited. check logs for more details.", err)
	}
}
