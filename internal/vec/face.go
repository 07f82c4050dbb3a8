package vec

// Face обозначает одну из шести граней блока
type Face int

// Канонический порядок граней. Индексы используются как номер соседнего чанка
// и как "последняя затронутая грань" при размещении блоков.
const (
	FaceLeft  Face = iota // -X
	FaceRight             // +X
	FaceTop               // +Y
	FaceDown              // -Y
	FaceFront             // +Z
	FaceBack              // -Z

	FaceCount = 6
)

// FaceNone используется, когда грань не задана
const FaceNone Face = -1

var faceUnits = [FaceCount]Vec3{
	FaceLeft:  {X: -1},
	FaceRight: {X: 1},
	FaceTop:   {Y: 1},
	FaceDown:  {Y: -1},
	FaceFront: {Z: 1},
	FaceBack:  {Z: -1},
}

var faceNames = [FaceCount]string{"left", "right", "top", "down", "front", "back"}

// Faces перечисляет все грани в каноническом порядке
var Faces = [FaceCount]Face{FaceLeft, FaceRight, FaceTop, FaceDown, FaceFront, FaceBack}

// Valid возвращает true для одной из шести канонических граней
func (f Face) Valid() bool {
	return f >= 0 && f < FaceCount
}

// UnitVector возвращает единичный вектор грани (±1 ровно по одной оси).
// Для недопустимой грани возвращает нулевой вектор и false.
func (f Face) UnitVector() (Vec3, bool) {
	if !f.Valid() {
		return Vec3{}, false
	}
	return faceUnits[f], true
}

// Opposite возвращает противоположную грань
func (f Face) Opposite() Face {
	if !f.Valid() {
		return FaceNone
	}
	return f ^ 1
}

// String возвращает имя грани
func (f Face) String() string {
	if !f.Valid() {
		return "none"
	}
	return faceNames[f]
}
