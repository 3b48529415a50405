// Example detect runs a YOLO object detection network over an image or a
// directory of images with a pool of networks, writing annotated copies to
// an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	cvdnn "github.com/swdee/go-cvdnn"
	"github.com/swdee/go-cvdnn/postprocess"
	"github.com/swdee/go-cvdnn/preprocess"
	"github.com/swdee/go-cvdnn/render"
	"github.com/swdee/go-cvdnn/source/miniosrc"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	cfgFile := flag.String("c", "", "JSON model config file, overrides -m, -l and -f")
	modelFile := flag.String("m", "", "Model file path, s3://bucket/key or minio://bucket/key")
	labelFile := flag.String("l", "", "Labels file, one class name per line")
	format := flag.String("f", "", "Model format: darknet, caffe, tensorflow or onnx")
	imgPath := flag.String("i", "../data/bus.jpg", "Image file or directory of images to run detection on")
	outDir := flag.String("o", ".", "Directory annotated images are written to")
	poolSize := flag.Int("s", 1, "Number of networks in the pool")
	region := flag.String("region", "", "AWS region for s3:// models")
	minioEndpoint := flag.String("minio-endpoint", "localhost:9000", "MinIO endpoint for minio:// models")
	minioSecure := flag.Bool("minio-secure", false, "Use TLS to connect to MinIO")
	ttfFile := flag.String("ttf", "", "TTF font for labels, needed for class names outside Latin script")
	verbose := flag.Bool("v", false, "Log native calls")

	flag.Parse()

	cfg := defaultModelConfig()

	if *cfgFile != "" {
		var err error
		cfg, err = LoadModelConfig(*cfgFile)

		if err != nil {
			log.Fatalf("Error loading model config: %v\n", err)
		}
	}

	if *modelFile != "" {
		cfg.Model = *modelFile
	}

	if *labelFile != "" {
		cfg.Labels = *labelFile
	}

	if *format != "" {
		cfg.Format = *format
	}

	level := slog.LevelInfo

	if *verbose {
		level = slog.LevelDebug
	}

	d := cvdnn.New(cvdnn.Default().Library(), cvdnn.WithLogger(cvdnn.NewTextLogger(level)))

	remote := Remote{
		Region: *region,
		MinIO: miniosrc.Config{
			Endpoint:  *minioEndpoint,
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Secure:    *minioSecure,
		},
	}

	ctx := context.Background()

	pool, err := newPool(ctx, d, cfg, remote, *poolSize)

	if err != nil {
		log.Fatalf("Error creating network pool: %v\n", err)
	}

	defer pool.Close()

	labels, err := cvdnn.LoadLabels(cfg.Labels)

	if err != nil {
		log.Fatalf("Error loading labels: %v\n", err)
	}

	params, err := cfg.YOLOParams()

	if err != nil {
		log.Fatalf("Error in model config: %v\n", err)
	}

	det := &detector{
		dnn:    d,
		cfg:    cfg,
		yolo:   postprocess.NewYOLO(d, params),
		labels: labels,
		outDir: *outDir,
	}

	if *ttfFile != "" {
		det.ttf, err = render.LoadTTF(*ttfFile, 16)

		if err != nil {
			log.Fatalf("Error loading font: %v\n", err)
		}

		defer det.ttf.Close()
	}

	files, err := listImages(*imgPath)

	if err != nil {
		log.Fatalf("Error listing images: %v\n", err)
	}

	start := time.Now()

	g := new(errgroup.Group)
	g.SetLimit(pool.Size())

	for _, file := range files {
		file := file // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			// pool.Get() blocks if no networks are available in the pool
			net := pool.Get()
			defer pool.Return(net)

			return det.processFile(net, file)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Error processing images: %v\n", err)
	}

	log.Printf("Processed %d images in %s\n", len(files), time.Since(start).String())
}

// newPool fetches the model once and loads size networks from it
func newPool(ctx context.Context, d *cvdnn.DNN, cfg ModelConfig, remote Remote,
	size int) (*cvdnn.NetPool, error) {

	format, err := parseFormat(cfg.Format)

	if err != nil {
		return nil, err
	}

	model, err := fetch(ctx, cfg.Model, remote)

	if err != nil {
		return nil, err
	}

	config, err := fetch(ctx, cfg.Config, remote)

	if err != nil {
		return nil, err
	}

	// the darknet and caffe readers take their text description first
	primary, secondary := model, config

	if format == cvdnn.FormatDarknet || format == cvdnn.FormatCaffe {
		primary, secondary = config, model
	}

	return cvdnn.NewNetPool(size, func() (*cvdnn.Net, error) {
		return d.ReadNetFrom(format, primary, secondary)
	})
}

// listImages returns path itself or the files in the directory at path
func listImages(path string) ([]string, error) {

	info, err := os.Stat(path)

	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)

	if err != nil {
		return nil, err
	}

	var files []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		files = append(files, filepath.Join(path, e.Name()))
	}

	return files, nil
}

type detector struct {
	dnn    *cvdnn.DNN
	cfg    ModelConfig
	yolo   *postprocess.YOLO
	labels []string
	outDir string
	ttf    *render.TTF
}

// processFile detects objects in one image and writes the annotated copy
func (dt *detector) processFile(net *cvdnn.Net, file string) error {

	img := gocv.IMRead(file, gocv.IMReadColor)

	if img.Empty() {
		return fmt.Errorf("error reading image from %s", file)
	}

	defer img.Close()

	resizer := preprocess.NewResizer(img.Cols(), img.Rows(),
		dt.cfg.InputWidth, dt.cfg.InputHeight)
	defer resizer.Close()

	padded := gocv.NewMat()
	defer padded.Close()

	resizer.LetterBoxResize(img, &padded, render.LetterBox)

	input, err := dt.dnn.FromGocv(padded)

	if err != nil {
		return err
	}

	defer input.Close()

	params := cvdnn.DefaultBlobParams()
	params.ScaleFactor = 1.0 / 255.0
	params.Size = image.Pt(dt.cfg.InputWidth, dt.cfg.InputHeight)
	params.Crop = false

	blob, err := dt.dnn.BlobFromImage(input, params)

	if err != nil {
		return err
	}

	defer blob.Close()

	if err := net.SetInput(blob, ""); err != nil {
		return err
	}

	out, err := net.Forward("")

	if err != nil {
		return err
	}

	defer out.Close()

	res, err := dt.yolo.DetectObjects(out, resizer)

	if err != nil {
		return err
	}

	for _, det := range res.GetDetectResults() {
		log.Printf("%s: %s @ (%d %d %d %d)\n", filepath.Base(file),
			det.Label(dt.labels), det.Box.Left, det.Box.Top, det.Box.Right,
			det.Box.Bottom)
	}

	if dt.ttf != nil {
		err = render.DetectionBoxesTTF(&img, res.GetDetectResults(), dt.labels,
			dt.ttf, render.White, 2)

		if err != nil {
			return err
		}
	} else {
		render.DetectionBoxes(&img, res.GetDetectResults(), dt.labels,
			render.DefaultFont(), 2)
	}

	ext := filepath.Ext(file)
	outFile := filepath.Join(dt.outDir,
		strings.TrimSuffix(filepath.Base(file), ext)+"-out"+ext)

	if ok := gocv.IMWrite(outFile, img); !ok {
		return fmt.Errorf("error saving image to %s", outFile)
	}

	return nil
}
