package convert

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DetectDelimiter inspects the first line of the file and classifies its
// field separator. A line with a comma and no semicolon is comma-separated,
// a line with a semicolon and no comma is semicolon-separated; anything else
// (both, neither, empty) defaults to comma. A read failure is a per-file
// failure and is never retried.
func DetectDelimiter(path string) (rune, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var firstLine string
	if scanner.Scan() {
		firstLine = scanner.Text()
	} else if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("cannot read first line of %s: %w", path, err)
	}

	hasComma := strings.ContainsRune(firstLine, ',')
	hasSemicolon := strings.ContainsRune(firstLine, ';')

	switch {
	case hasComma && !hasSemicolon:
		return ',', nil
	case hasSemicolon && !hasComma:
		return ';', nil
	default:
		return ',', nil
	}
}
