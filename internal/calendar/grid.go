package calendar

const DaysInWeek = 7

// Cell is one slot of a month grid. Empty cells are the leading and trailing
// placeholders around the days of the month.
type Cell struct {
	Index int
	Empty bool
	Date  Date
}

// Day returns the day of month of the cell, or 0 for empty cells.
func (c Cell) Day() int {
	if c.Empty {
		return 0
	}

	return c.Date.Day()
}

// Row returns the zero based week row of the cell.
func (c Cell) Row() int    { return c.Index / DaysInWeek }
func (c Cell) Column() int { return c.Index % DaysInWeek }

// Grid is the seven column matrix of cells for a single month.
type Grid struct {
	Month Date
	Cells []Cell
}

// NewGrid lays out the month of the given date. Cells are filled by stepping
// a cursor from the first of the month one day at a time.
func NewGrid(month Date) Grid {
	month = month.BeginOfMonth()

	first := month.FirstColumn()
	last := first + month.DaysInMonth()

	grid := Grid{
		Month: month,
		Cells: make([]Cell, DaysInWeek*month.WeekRows()),
	}

	cursor := month

	for i := range grid.Cells {
		if i < first || i >= last {
			grid.Cells[i] = Cell{Index: i, Empty: true}
			continue
		}

		grid.Cells[i] = Cell{Index: i, Date: cursor}
		cursor.AdvanceOneDay()
	}

	return grid
}

// Cell returns the cell at the linear index i.
func (g Grid) Cell(i int) (Cell, bool) {
	if i < 0 || i >= len(g.Cells) {
		return Cell{}, false
	}

	return g.Cells[i], true
}

// DateAt returns the date shown at index i, if the cell is not empty.
func (g Grid) DateAt(i int) (Date, bool) {
	cell, ok := g.Cell(i)
	if !ok || cell.Empty {
		return Date{}, false
	}

	return cell.Date, true
}

// IndexOf returns the cell index of d, if d falls in the grid's month.
func (g Grid) IndexOf(d Date) (int, bool) {
	if !g.Month.SameMonth(d) {
		return 0, false
	}

	return g.Month.FirstColumn() + d.Day() - 1, true
}

// Rows splits the cells into week rows.
func (g Grid) Rows() [][]Cell {
	rows := make([][]Cell, 0, len(g.Cells)/DaysInWeek)

	for start := 0; start < len(g.Cells); start += DaysInWeek {
		rows = append(rows, g.Cells[start:start+DaysInWeek])
	}

	return rows
}
