package game

// CardView is the client-facing representation of a card.
// Symbol and Image are only included when the card is revealed or matched.
// A face-up card without Image is drawn with its symbol as text.
type CardView struct {
	Index  int    `json:"index"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	State  string `json:"state"`
	Symbol string `json:"symbol,omitempty"`
	Image  string `json:"image,omitempty"`
}

// SessionView is everything the presentation layer needs to draw one frame.
type SessionView struct {
	Cards      []CardView `json:"cards"`
	Selection  []int      `json:"selection"`
	Phase      string     `json:"phase"`
	Moves      int        `json:"moves"`
	Matches    int        `json:"matches"`
	TotalPairs int        `json:"totalPairs"`
	Complete   bool       `json:"complete"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
}

// BuildCardViews constructs the client-facing card list.
// Hidden cards do not expose their symbol. assets may be nil.
func BuildCardViews(board *Board, assets AssetProvider) []CardView {
	views := make([]CardView, len(board.Cards))
	for i, card := range board.Cards {
		pos := board.Position(i)
		cv := CardView{
			Index: card.Index,
			Row:   pos.Row,
			Col:   pos.Col,
			State: card.State.String(),
		}
		if card.State == Revealed || card.State == Matched {
			cv.Symbol = string(card.Symbol)
			if assets != nil {
				if url, ok := assets.Lookup(ImageKey(card.Symbol)); ok {
					cv.Image = url
				}
			}
		}
		views[i] = cv
	}
	return views
}

// Equal reports whether two views would render identically.
func (v SessionView) Equal(o SessionView) bool {
	if v.Phase != o.Phase || v.Moves != o.Moves || v.Matches != o.Matches ||
		v.TotalPairs != o.TotalPairs || v.Complete != o.Complete || v.Rows != o.Rows || v.Cols != o.Cols {
		return false
	}
	if len(v.Cards) != len(o.Cards) || len(v.Selection) != len(o.Selection) {
		return false
	}
	for i := range v.Cards {
		if v.Cards[i] != o.Cards[i] {
			return false
		}
	}
	for i := range v.Selection {
		if v.Selection[i] != o.Selection[i] {
			return false
		}
	}
	return true
}
