package source

// demoRows is the built-in dataset shown when no input file is given:
// average call time in minutes for thirteen agents.
var demoRows = [][]string{
	{"김민지", "12.5", "https://images.unsplash.com/photo-1524504388940-b1c1722653e1"},
	{"이준호", "11.8", "https://images.unsplash.com/photo-1519340241574-2cec6aef0c01"},
	{"박서연", "11.2", "https://images.unsplash.com/photo-1527980965255-d3b416303d12"},
	{"최지훈", "10.9", "https://images.unsplash.com/photo-1544005313-94ddf0286df2"},
	{"정수진", "10.6", "https://images.unsplash.com/photo-1547425260-76bcadfb4f2c"},
	{"오하늘", "10.3", "https://images.unsplash.com/photo-1527980965255-d3b416303d12"},
	{"강민서", "9.9", "https://images.unsplash.com/photo-1544005313-94ddf0286df2"},
	{"이예린", "9.8", "https://images.unsplash.com/photo-1524504388940-b1c1722653e1"},
	{"한서현", "13.1", "https://images.unsplash.com/photo-1508214751196-bcfd4ca60f91"},
	{"문지우", "12.0", "https://images.unsplash.com/photo-1547425260-76bcadfb4f2c"},
	{"박지민", "10.1", "https://images.unsplash.com/photo-1544005313-94ddf0286df2"},
	{"서민규", "11.1", "https://images.unsplash.com/photo-1519340241574-2cec6aef0c01"},
	{"유하린", "10.7", "https://images.unsplash.com/photo-1524504388940-b1c1722653e1"},
}

// DemoMetricLabel is the metric label that matches the demo dataset.
const DemoMetricLabel = "평균 콜 시간 (분)"

// Demo returns a fresh copy of the built-in dataset.
func Demo() *Table {
	rows := make([][]string, len(demoRows))
	for i, r := range demoRows {
		rows[i] = append([]string(nil), r...)
	}
	return &Table{
		Columns: append([]string(nil), RequiredColumns...),
		Rows:    rows,
	}
}
