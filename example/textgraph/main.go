// Example textgraph writes the text graph description of a binary
// TensorFlow model, the .pbtxt that ReadNetFromTensorflow takes as config
package main

import (
	"flag"
	"log"

	cvdnn "github.com/swdee/go-cvdnn"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	modelFile := flag.String("m", "../data/frozen_inference_graph.pb", "Binary TensorFlow model file")
	outFile := flag.String("o", "graph.pbtxt", "Text graph output file")

	flag.Parse()

	if err := cvdnn.WriteTextGraph(*modelFile, *outFile); err != nil {
		log.Fatalf("Error writing text graph: %v\n", err)
	}

	log.Printf("Text graph of %s written to %s\n", *modelFile, *outFile)
}
