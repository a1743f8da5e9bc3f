package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/zucenko/robogrid/model"
)

// Layout is a board definition read from a text map:
//
//	A . . .|B
//	  -
//	. . . . .
//
// Even lines are rows of cells on even columns; a '|' between two cells is
// a wall to the east. Odd lines hold '-' under a cell for a wall to the
// south. Letters A-F mark the start spaces of players in join order.
type Layout struct {
	Width, Height int
	Walls         *model.Walls
	Starts        [][2]int
}

type wall struct {
	col, row int
	dir      model.Heading
}

func LoadLayout(path string) (*Layout, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer file.Close()
	return ParseLayout(file)
}

func ParseLayout(reader io.Reader) (*Layout, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	walls := make([]wall, 0)
	starts := make(map[rune][2]int)
	lines := 0
	matrixRow := 0
	width := -1

	for scanner.Scan() {
		s := []rune(scanner.Text())
		if lines%2 == 0 {
			// real line
			matrixCol := 0
			for i, char := range s {
				if i%2 == 0 {
					switch char {
					case 'A', 'B', 'C', 'D', 'E', 'F':
						if _, found := starts[char]; found {
							return nil, fmt.Errorf("line %d: start %c twice", lines+1, char)
						}
						starts[char] = [2]int{matrixCol, matrixRow}
					case '.', ' ':
					default:
						return nil, fmt.Errorf("line %d: unexpected cell %q", lines+1, char)
					}
					matrixCol++
				} else if char == '|' {
					walls = append(walls, wall{matrixCol - 1, matrixRow, model.EAST})
				}
			}
			if width == -1 {
				width = matrixCol
			} else if width != matrixCol {
				return nil, fmt.Errorf("line %d: %d cells, expected %d", lines+1, matrixCol, width)
			}
		} else {
			// bottom wall
			for i, char := range s {
				if i%2 == 0 && char == '-' {
					walls = append(walls, wall{i / 2, matrixRow, model.SOUTH})
				}
			}
			matrixRow++
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	if lines%2 == 1 {
		matrixRow++
	}
	if width <= 0 || matrixRow == 0 {
		return nil, fmt.Errorf("empty layout")
	}

	layout := &Layout{
		Width:  width,
		Height: matrixRow,
		Walls:  model.NewWalls(width, matrixRow),
		Starts: make([][2]int, 0, len(starts)),
	}
	for _, w := range walls {
		if w.col >= width || w.row >= matrixRow {
			return nil, fmt.Errorf("wall at %d,%d is off the board", w.col, w.row)
		}
		layout.Walls.Add(w.col, w.row, w.dir)
	}
	letters := make([]rune, 0, len(starts))
	for l := range starts {
		letters = append(letters, l)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	for _, l := range letters {
		layout.Starts = append(layout.Starts, starts[l])
	}
	return layout, nil
}

// OpenLayout is a board of the given size without walls or start spaces.
func OpenLayout(width, height int) *Layout {
	return &Layout{
		Width:  width,
		Height: height,
		Walls:  model.NewWalls(width, height),
		Starts: [][2]int{},
	}
}
