// Example query loads a network and prints its layer names
package main

import (
	"flag"
	"log"
	"os"

	cvdnn "github.com/swdee/go-cvdnn"
	"github.com/swdee/go-cvdnn/source"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	modelFile := flag.String("m", "../data/yolov8n.onnx", "Model file, .zst and .lz4 files are decompressed")
	configFile := flag.String("c", "", "Optional companion config file")
	framework := flag.String("f", "", "Framework name, empty detects it from the file extension")

	flag.Parse()

	var (
		net *cvdnn.Net
		err error
	)

	if *configFile == "" && *framework == "" {
		// single file models are read through a Source so compressed models
		// can be loaded directly
		f, openErr := source.Open(*modelFile)

		if openErr != nil {
			log.Fatalf("Error opening model: %v\n", openErr)
		}

		net, err = cvdnn.ReadNetFromONNXSource(f)
		_ = f.Close()

		if err != nil {
			log.Fatalf("Error loading model: %v\n", err)
		}
	} else {
		net, err = cvdnn.ReadNet(*modelFile, *configFile, cvdnn.Framework(*framework))

		if err != nil {
			log.Fatalf("Error loading model: %v\n", err)
		}
	}

	defer net.Close()

	if err := net.Query(os.Stdout); err != nil {
		log.Fatalf("Error querying network: %v\n", err)
	}
}
