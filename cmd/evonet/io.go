package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/baldhumanity/evonet-go/evonet/nn"
)

// readAll reads a whole file, or stdin when the path is empty.
func readAll(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// readNetwork loads a persisted network from a file or stdin.
func readNetwork(path string) (*nn.NetworkBuf, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network: %w", err)
	}
	buf := &nn.NetworkBuf{}
	if err := json.Unmarshal(data, buf); err != nil {
		return nil, fmt.Errorf("failed to parse network: %w", err)
	}
	return buf, nil
}

// writeNetwork prints a network as JSON on stdout.
func writeNetwork(buf *nn.NetworkBuf) error {
	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(buf)
}

// readSamples loads JSON-lines samples from a file or stdin.
func readSamples(path string) ([]nn.Sample, error) {
	var reader io.Reader = os.Stdin
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open samples: %w", err)
		}
		defer file.Close()
		reader = file
	}
	var samples []nn.Sample
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var sample nn.Sample
		if err := json.Unmarshal(line, &sample); err != nil {
			return nil, fmt.Errorf("failed to parse sample %d: %w", len(samples)+1, err)
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	return samples, nil
}

// argOrEmpty returns args[i] when present.
func argOrEmpty(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
