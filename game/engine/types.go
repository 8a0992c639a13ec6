package engine

// Cell is a 4-bit wall mask. A set bit means the wall on that side is present.
type Cell uint8

const (
	WallLeft   Cell = 1 << iota // bit 0
	WallTop                     // bit 1
	WallRight                   // bit 2
	WallBottom                  // bit 3

	AllWalls = WallLeft | WallTop | WallRight | WallBottom
)

// Validation constants
const (
	MinMazeSize         = 1
	MaxMazeSize         = 200
	MaxBulkMoves        = 100
	DefaultMazeSize     = 10
	DefaultRevealMillis = 100
	MinRevealMillis     = 10
	MaxRevealMillis     = 5000
	WebSocketBufferSize = 256
)

// Direction names one of the four unit moves on the grid
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists the four moves in the order the solver explores them
var Directions = []Direction{Right, Left, Down, Up}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Path is an ordered list of adjacent, unobstructed positions. Empty means no solution.
type Path []Position

// Frontier is a candidate wall next to an already visited cell during generation
type Frontier struct {
	X   int
	Y   int
	Dir Direction
}

// Grid is an N×N maze stored row-major: Cells[y][x]
type Grid struct {
	Size  int      `json:"size"`
	Cells [][]Cell `json:"cells"`
}

// MazeConfig represents a maze preset loaded from JSON
type MazeConfig struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Size             int    `json:"size"`
	Seed             int64  `json:"seed,omitempty"`
	RevealIntervalMs int    `json:"reveal_interval_ms"`
	Messages         struct {
		Welcome   string `json:"welcome"`
		Moved     string `json:"moved"`
		Blocked   string `json:"blocked"`
		Locked    string `json:"locked"`
		Victory   string `json:"victory"`
		Solved    string `json:"solved"`
		Generated string `json:"generated"`
	} `json:"messages"`
}

// MazeState is the complete state of one maze session
type MazeState struct {
	Grid        *Grid    `json:"grid"`
	Size        int      `json:"size"`
	Start       Position `json:"start"`
	End         Position `json:"end"`
	PlayerPos   Position `json:"player_pos"`
	PreviousPos Position `json:"previous_pos"`
	Seed        int64    `json:"seed,omitempty"`
	ConfigName  string   `json:"config_name"`
	Message     string   `json:"message"`

	// Solution is the last path computed by Solve; Revealed is set once it was requested.
	Solution      Path `json:"solution,omitempty"`
	Revealed      bool `json:"revealed"`
	PlayerCanMove bool `json:"player_can_move"`
	Victory       bool `json:"victory"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset or generate.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	PossibleMoves []Direction `json:"possible_moves,omitempty"`
}

// MoveHistoryEntry represents a single move in the session history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}
