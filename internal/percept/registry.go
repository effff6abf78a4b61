package percept

// The default feature registry. Registration order drives perception
// order. Features that read other features (on_ground reads touch)
// resolve them on demand, so the order carries no dependencies.
func init() {
	// Object attributes.
	registerObjAttr(&Descriptor{Key: KeyShape, Constant: true, newAttr: newShapeAttr})
	registerObjAttr(&Descriptor{Key: KeyCircle, Constant: true, newAttr: newCircleAttr})
	registerObjAttr(&Descriptor{Key: KeySquare, Constant: true, newAttr: newSquareAttr})
	registerObjAttr(&Descriptor{Key: KeyRect, Constant: true, newAttr: newRectAttr})
	registerObjAttr(&Descriptor{Key: KeyTriangle, Constant: true, newAttr: newTriangleAttr})
	registerObjAttr(&Descriptor{Key: KeySmall, Constant: true, newAttr: newSmallAttr})
	registerObjAttr(&Descriptor{Key: KeyLarge, Constant: true, newAttr: newLargeAttr})
	registerObjAttr(&Descriptor{Key: KeyLeftPos, newAttr: newLeftPosAttr})
	registerObjAttr(&Descriptor{Key: KeyRightPos, newAttr: newRightPosAttr})
	registerObjAttr(&Descriptor{Key: KeyTopPos, newAttr: newTopPosAttr})
	registerObjAttr(&Descriptor{Key: KeyBottomPos, newAttr: newBottomPosAttr})
	registerObjAttr(&Descriptor{Key: KeyLeftMost, newAttr: newLeftMostAttr})
	registerObjAttr(&Descriptor{Key: KeyRightMost, newAttr: newRightMostAttr})
	registerObjAttr(&Descriptor{Key: KeyTopMost, newAttr: newTopMostAttr})
	registerObjAttr(&Descriptor{Key: KeySingle, newAttr: newSingleAttr})
	registerObjAttr(&Descriptor{Key: KeyOnGround, newAttr: newOnGroundAttr})
	registerObjAttr(&Descriptor{Key: KeyMoves, newAttr: newMovesAttr})
	registerObjAttr(&Descriptor{Key: KeyIsSupported, newAttr: newIsSupportedAttr})
	registerObjAttr(&Descriptor{Key: KeyStability, newAttr: newStabilityAttr})
	registerObjAttr(&Descriptor{Key: KeyCanMoveUp, newAttr: newCanMoveUpAttr})

	// Object relations.
	registerObjRel(&Descriptor{Key: KeyTouch, Symmetric: true, newRel: newTouchRel})
	registerObjRel(&Descriptor{Key: KeyLeftOf, newRel: newLeftOfRel})
	registerObjRel(&Descriptor{Key: KeyRightOf, newRel: newRightOfRel})
	registerObjRel(&Descriptor{Key: KeyAbove, newRel: newAboveRel})
	registerObjRel(&Descriptor{Key: KeyBelow, newRel: newBelowRel})
	registerObjRel(&Descriptor{Key: KeyBeside, Symmetric: true, newRel: newBesideRel})
	registerObjRel(&Descriptor{Key: KeyOnTopOf, newRel: newOnTopOfRel})
	registerObjRel(&Descriptor{Key: KeyClose, Symmetric: true, newRel: newCloseRel})
	registerObjRel(&Descriptor{Key: KeyFar, Symmetric: true, newRel: newFarRel})
	registerObjRel(&Descriptor{Key: KeyHits, Constant: true, newRel: newHitsRel})
	registerObjRel(&Descriptor{Key: KeyGetsHit, Constant: true, newRel: newGetsHitRel})
	registerObjRel(&Descriptor{Key: KeyCollides, Constant: true, Symmetric: true, newRel: newCollidesRel})
	registerObjRel(&Descriptor{Key: KeySupports, newRel: newSupportsRel})

	// Group attributes.
	registerGroupAttr(&Descriptor{Key: KeyCount, Constant: true, newGroup: newCountAttr})
	registerGroupAttr(&Descriptor{Key: KeyClose, newGroup: newGroupCloseAttr})
	registerGroupAttr(&Descriptor{Key: KeyTouching, newGroup: newGroupTouchingAttr})
	registerGroupAttr(&Descriptor{Key: KeyFar, newGroup: newGroupFarAttr})
}
