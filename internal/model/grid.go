package model

const (
	// Rows количество видимых строк
	Rows = 3
	// Reels количество барабанов
	Reels = 5
)

// Position координата ячейки на поле
type Position struct {
	Row  int
	Reel int
}

// Grid видимое окно барабанов, Grid[row][reel]
type Grid [Rows][Reels]string

// Payline номер строки для каждого барабана, слева направо
type Payline [Reels]int

// Cells количество ячеек на поле, всегда 15
func (g Grid) Cells() int {
	return Rows * Reels
}

// Count считает сколько раз символ встречается на поле
func (g Grid) Count(symbol string) int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Reels; c++ {
			if g[r][c] == symbol {
				n++
			}
		}
	}
	return n
}

// Positions возвращает все позиции символа, построчно
func (g Grid) Positions(symbol string) []Position {
	var out []Position
	for r := 0; r < Rows; r++ {
		for c := 0; c < Reels; c++ {
			if g[r][c] == symbol {
				out = append(out, Position{Row: r, Reel: c})
			}
		}
	}
	return out
}

// Column символы одного барабана сверху вниз
func (g Grid) Column(reel int) [Rows]string {
	var col [Rows]string
	for r := 0; r < Rows; r++ {
		col[r] = g[r][reel]
	}
	return col
}

// Line символы вдоль линии выплат
func (g Grid) Line(line Payline) [Reels]string {
	var out [Reels]string
	for c, r := range line {
		out[c] = g[r][c]
	}
	return out
}
