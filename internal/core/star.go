package core

// FieldCount is the number of comma-separated fields in a catalog line.
const FieldCount = 37

// Star is one catalog row. Nullable integers hold 0 and nullable floats
// hold NaN when the catalog leaves them empty.
type Star struct {
	ID  int64
	Hip int64
	HD  int64
	HR  string // Kept as text: the catalog never needs it numerically

	Gl     string
	Bf     string
	Proper string

	RA    float64
	Dec   float64
	Dist  float64
	PMRA  float64
	PMDec float64
	RV    float64

	Mag    float64
	AbsMag float64
	Spect  string
	CI     float64

	X  float64
	Y  float64
	Z  float64
	VX float64
	VY float64
	VZ float64

	RARad    float64
	DecRad   float64
	PMRARad  float64
	PMDecRad float64

	Bayer       string
	Flam        int64
	Con         string
	Comp        int64
	CompPrimary int64
	Base        string
	Lum         float64
	VarType     string
	VarMin      float64
	VarMax      float64
}

// StarFields is the positional layout of a catalog line.
var StarFields = [FieldCount]FieldSpec{
	{0, "id", "", KindInt},
	{1, "hip", "", KindNullInt},
	{2, "hd", "", KindNullInt},
	{3, "hr", "", KindText},
	{4, "gl", "", KindText},
	{5, "bf", "", KindText},
	{6, "proper", "", KindText},
	{7, "ra", "", KindFloat},
	{8, "dec", "", KindFloat},
	{9, "dist", "", KindFloat},
	{10, "pmra", "", KindFloat},
	{11, "pmdec", "", KindFloat},
	{12, "rv", "", KindFloat},
	{13, "mag", "", KindFloat},
	{14, "absmag", "", KindFloat},
	{15, "spect", "", KindText},
	{16, "ci", "", KindNullFloat},
	{17, "x", "", KindFloat},
	{18, "y", "", KindFloat},
	{19, "z", "", KindFloat},
	{20, "vx", "", KindFloat},
	{21, "vy", "", KindFloat},
	{22, "vz", "", KindFloat},
	{23, "rarad", "", KindFloat},
	{24, "decrad", "", KindFloat},
	{25, "pmrarad", "", KindFloat},
	{26, "pmdecrad", "", KindFloat},
	{27, "bayer", "", KindText},
	{28, "flam", "", KindNullInt},
	{29, "con", "", KindText},
	{30, "comp", "", KindNullInt},
	{31, "comp_primary", "", KindNullInt},
	{32, "base", "", KindText},
	{33, "lum", "", KindFloat},
	{34, "var", "var_type", KindText},
	{35, "var_min", "", KindNullFloat},
	{36, "var_max", "", KindNullFloat},
}

// DataFields returns the layout without the id column, in storage order.
func DataFields() []FieldSpec {
	return StarFields[1:]
}

// Values returns the record's non-id values in DataFields order.
func (s Star) Values() []any {
	return []any{
		s.Hip, s.HD, s.HR, s.Gl, s.Bf, s.Proper,
		s.RA, s.Dec, s.Dist, s.PMRA, s.PMDec, s.RV,
		s.Mag, s.AbsMag, s.Spect, s.CI,
		s.X, s.Y, s.Z, s.VX, s.VY, s.VZ,
		s.RARad, s.DecRad, s.PMRARad, s.PMDecRad,
		s.Bayer, s.Flam, s.Con, s.Comp, s.CompPrimary, s.Base,
		s.Lum, s.VarType, s.VarMin, s.VarMax,
	}
}
