package model

// Distance is a putt's starting distance label as offered on the keyboard
// and stored in the putts table.
type Distance string

const (
	DistanceGimmie   Distance = "Gimmie"
	Distance3ft      Distance = "3ft"
	Distance4ft      Distance = "4ft"
	Distance5ft      Distance = "5ft"
	Distance6ft      Distance = "6ft"
	Distance7ft      Distance = "7ft"
	Distance8ft      Distance = "8ft"
	Distance10ft     Distance = "10ft"
	Distance15ft     Distance = "15ft"
	Distance20ft     Distance = "20ft"
	Distance25ft     Distance = "25ft"
	Distance30ft     Distance = "30ft"
	Distance40ft     Distance = "40ft"
	Distance50ft     Distance = "50ft"
	Distance50ftPlus Distance = "50ft+"

	// DistanceMadeIt is the "0 (Made It!)" choice: the previous putt dropped.
	DistanceMadeIt Distance = "0"
)

// Distances lists the labels in keyboard order, shortest first.
var Distances = []Distance{
	DistanceGimmie, Distance3ft, Distance4ft, Distance5ft,
	Distance6ft, Distance7ft, Distance8ft, Distance10ft,
	Distance15ft, Distance20ft, Distance25ft, Distance30ft,
	Distance40ft, Distance50ft, Distance50ftPlus,
}

// DefaultBaseline is the expected putt count for a label missing from the table.
const DefaultBaseline = 2.0

type distanceInfo struct {
	feet     float64 // midpoint estimate used for averaging
	baseline float64 // PGA Tour expected putts (Broadie)
}

var distanceTable = map[Distance]distanceInfo{
	DistanceGimmie:   {feet: 2, baseline: 1.009},
	Distance3ft:      {feet: 3, baseline: 1.053},
	Distance4ft:      {feet: 4, baseline: 1.147},
	Distance5ft:      {feet: 5, baseline: 1.256},
	Distance6ft:      {feet: 6, baseline: 1.350},
	Distance7ft:      {feet: 7, baseline: 1.443},
	Distance8ft:      {feet: 8, baseline: 1.500},
	Distance10ft:     {feet: 10, baseline: 1.626},
	Distance15ft:     {feet: 15, baseline: 1.790},
	Distance20ft:     {feet: 20, baseline: 1.878},
	Distance25ft:     {feet: 25, baseline: 1.934},
	Distance30ft:     {feet: 30, baseline: 1.978},
	Distance40ft:     {feet: 40, baseline: 2.055},
	Distance50ft:     {feet: 50, baseline: 2.135},
	Distance50ftPlus: {feet: 60, baseline: 2.150},
}

// Valid reports whether d is one of the keyboard labels. The made-it
// sentinel is not a distance.
func (d Distance) Valid() bool {
	_, ok := distanceTable[d]
	return ok
}

// Feet returns the numeric estimate for d and false for unknown labels.
func (d Distance) Feet() (float64, bool) {
	info, ok := distanceTable[d]
	return info.feet, ok
}

// Baseline returns the expected number of putts from d.
func (d Distance) Baseline() float64 {
	info, ok := distanceTable[d]
	if !ok {
		return DefaultBaseline
	}
	return info.baseline
}
