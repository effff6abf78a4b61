package percept

// Feature keys of the default registry.
const (
	KeyShape       = "shape"
	KeyCircle      = "circle"
	KeySquare      = "square"
	KeyRect        = "rect"
	KeyTriangle    = "triangle"
	KeySmall       = "small"
	KeyLarge       = "large"
	KeyLeftPos     = "left_pos"
	KeyRightPos    = "right_pos"
	KeyTopPos      = "top_pos"
	KeyBottomPos   = "bottom_pos"
	KeyLeftMost    = "left_most"
	KeyRightMost   = "right_most"
	KeyTopMost     = "top_most"
	KeySingle      = "single"
	KeyOnGround    = "on_ground"
	KeyMoves       = "moves"
	KeyIsSupported = "is_supported"
	KeyStability   = "stability"
	KeyCanMoveUp   = "can_move_up"

	KeyLeftOf   = "left_of"
	KeyRightOf  = "right_of"
	KeyAbove    = "above"
	KeyBelow    = "below"
	KeyBeside   = "beside"
	KeyOnTopOf  = "on_top_of"
	KeyTouch    = "touch"
	KeyClose    = "close"
	KeyFar      = "far"
	KeyHits     = "hits"
	KeyGetsHit  = "gets_hit"
	KeyCollides = "collides"
	KeySupports = "supports"

	KeyCount    = "count"
	KeyTouching = "touching"
)
