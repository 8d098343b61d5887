package lut

// Reading and writing the Adobe/Resolve .cube text format. Only 3D
// tables are supported; the domain is always taken to be [0,1].

import(
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/abworrall/lutgrade/pkg/emath"
)

/* Example .cube file ...

TITLE "Generated LUT"
LUT_3D_SIZE 2
DOMAIN_MIN 0.0 0.0 0.0
DOMAIN_MAX 1.0 1.0 1.0
0.0000000000 0.0000000000 0.0000000000
1.0000000000 0.0000000000 0.0000000000
0.0000000000 1.0000000000 0.0000000000
...

*/

const DefaultTitle = "Generated LUT"

func LoadFile(filename string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v: %w", filename, err, ErrInvalidLut)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("cube '%s': %w", filename, err)
	}
	return t, nil
}

// Load parses a .cube file. Rows of three numbers are lattice points;
// LUT_3D_SIZE declares the size; TITLE is kept; DOMAIN_MIN, DOMAIN_MAX
// and any other keywords are ignored. The number of rows must be exactly
// size^3.
func Load(r io.Reader) (*Table, error) {
	t := &Table{}
	scanner := bufio.NewScanner(r)

	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if rgb, ok := parseRow(fields); ok {
			t.Samples = append(t.Samples, rgb)
			continue
		}

		switch fields[0] {
		case "LUT_3D_SIZE":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: LUT_3D_SIZE with no size: %w", lineNum, ErrInvalidLut)
			}
			size, err := strconv.Atoi(fields[1])
			if err != nil || size <= 0 {
				return nil, fmt.Errorf("line %d: bad LUT_3D_SIZE '%s': %w", lineNum, fields[1], ErrInvalidLut)
			}
			t.Size = size

		case "TITLE":
			t.Title = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "TITLE")), "\"")

		default:
			// DOMAIN_MIN, DOMAIN_MAX, LUT_1D_SIZE, vendor keywords ...
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %v: %w", err, ErrInvalidLut)
	}

	if t.Size == 0 {
		return nil, fmt.Errorf("no LUT_3D_SIZE found: %w", ErrInvalidLut)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func parseRow(fields []string) (emath.Vec3, bool) {
	var rgb emath.Vec3
	if len(fields) < 3 {
		return rgb, false
	}
	for i:=0; i<3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return rgb, false
		}
		rgb[i] = f
	}
	return rgb, true
}

// WriteCube writes the table in .cube format. Rows go out blue-outermost,
// red-innermost, which is the order Load reads them back in.
func (t *Table)WriteCube(w io.Writer) error {
	if err := t.Validate(); err != nil {
		return err
	}

	title := t.Title
	if title == "" {
		title = DefaultTitle
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "TITLE \"%s\"\n", title)
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", t.Size)
	fmt.Fprintf(bw, "DOMAIN_MIN 0.0 0.0 0.0\n")
	fmt.Fprintf(bw, "DOMAIN_MAX 1.0 1.0 1.0\n")

	N := t.Size
	for b:=0; b<N; b++ {
		for g:=0; g<N; g++ {
			for r:=0; r<N; r++ {
				c := t.Samples[r + g*N + b*N*N]
				fmt.Fprintf(bw, "%.10f %.10f %.10f\n", c[0], c[1], c[2])
			}
		}
	}

	return bw.Flush()
}

func (t *Table)WriteFile(filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}

	if err := t.WriteCube(writer); err != nil {
		writer.Close()
		return fmt.Errorf("write '%s': %v", filename, err)
	}

	return writer.Close()
}
