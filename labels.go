package cvdnn

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads the class names the network was trained with from a text
// file holding one name per line.  Line N names class index N-1.
func LoadLabels(file string) ([]string, error) {

	if file == "" {
		return nil, emptyArg("file")
	}

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening labels file: %w", err)
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var labels []string

	// read and trim each line
	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading labels file: %w", err)
	}

	// a trailing newline does not add a class
	for len(labels) > 0 && labels[len(labels)-1] == "" {
		labels = labels[:len(labels)-1]
	}

	return labels, nil
}
