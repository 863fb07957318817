// Command server runs only the alsd REST API. It is the deployable form of
// "alsd serve": a single flag and none of the CLI or terminal UI code, for
// containers and process managers that just need the HTTP endpoint.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/alsd/pkg/api"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	flag.Parse()

	fmt.Printf("Starting alsd API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
