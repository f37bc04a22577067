// Large Source Generator
//
// Generates a large template source for performance testing. The
// output mixes plain prose with variable references, nested dimension
// blocks, and escapes, so the lexer, parser, and writer all get
// exercised at scale.
//
// Usage:
//
//	go run main.go > large.txt
//	go run main.go 20000000 > large.txt  # Target size in bytes
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
)

const defaultTargetSize = 10 * 1024 * 1024 // 10MB

var (
	words = []string{
		"lorem", "ipsum", "dolor", "sit", "amet", "consectetur",
		"adipiscing", "elit", "sed", "do", "eiusmod", "tempor",
		"incididunt", "ut", "labore", "et", "dolore", "magna",
	}

	variables = []string{
		"project", "version", "author", "license", "year", "codename",
	}

	dimensions = []struct {
		name  string
		arity int
	}{
		{"platform", 3},
		{"tier", 2},
		{"locale", 4},
		{"debug", 2},
	}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			targetSize = n
		}
	}

	rng := rand.New(rand.NewSource(42))
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	written := 0
	for written < targetSize {
		var n int
		switch rng.Intn(10) {
		case 0:
			n = writeVariable(out, rng)
		case 1, 2:
			n = writeDimension(out, rng, 2)
		case 3:
			n = writeEscape(out, rng)
		default:
			n = writeProse(out, rng, 4+rng.Intn(12))
		}
		written += n
	}
	fmt.Fprintln(out)
}

func writeProse(out *bufio.Writer, rng *rand.Rand, count int) int {
	n := 0
	for i := 0; i < count; i++ {
		w := words[rng.Intn(len(words))]
		c, _ := fmt.Fprintf(out, "%s ", w)
		n += c
		if rng.Intn(12) == 0 {
			c, _ = fmt.Fprintln(out)
			n += c
		}
	}
	return n
}

func writeVariable(out *bufio.Writer, rng *rand.Rand) int {
	n, _ := fmt.Fprintf(out, "#$%s#", variables[rng.Intn(len(variables))])
	return n
}

func writeEscape(out *bufio.Writer, rng *rand.Rand) int {
	escapes := []string{`\#`, `\}`, `\\`}
	n, _ := fmt.Fprint(out, escapes[rng.Intn(len(escapes))])
	return n
}

func writeDimension(out *bufio.Writer, rng *rand.Rand, depth int) int {
	d := dimensions[rng.Intn(len(dimensions))]
	n, _ := fmt.Fprintf(out, "#%s{", d.name)
	for i := 0; i < d.arity; i++ {
		if i > 0 {
			c, _ := fmt.Fprint(out, " ## ")
			n += c
		}
		n += writeProse(out, rng, 2+rng.Intn(5))
		if depth > 0 && rng.Intn(4) == 0 {
			n += writeDimension(out, rng, depth-1)
		}
	}
	c, _ := fmt.Fprint(out, "}#")
	return n + c
}
