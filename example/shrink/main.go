// Example shrink converts the float32 weights of a Caffe model to float16,
// halving its size on disk
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	cvdnn "github.com/swdee/go-cvdnn"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	srcFile := flag.String("i", "../data/bvlc_googlenet.caffemodel", "Caffe model to shrink")
	dstFile := flag.String("o", "bvlc_googlenet_fp16.caffemodel", "Shrunk model output file")
	layers := flag.String("t", "", "Comma separated layer types to convert, empty converts Convolution and InnerProduct")

	flag.Parse()

	var layerTypes []string

	if *layers != "" {
		layerTypes = strings.Split(*layers, ",")
	}

	if err := cvdnn.ShrinkCaffeModel(*srcFile, *dstFile, layerTypes); err != nil {
		log.Fatalf("Error shrinking model: %v\n", err)
	}

	before, errBefore := os.Stat(*srcFile)
	after, errAfter := os.Stat(*dstFile)

	if errBefore != nil || errAfter != nil {
		log.Printf("Shrunk model written to %s\n", *dstFile)
		return
	}

	log.Printf("Shrunk %s from %d to %d bytes\n", *dstFile, before.Size(), after.Size())
}
