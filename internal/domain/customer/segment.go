package customer

// DistanceBucket groups customers by distance from the store
type DistanceBucket string

const (
	DistanceNear    DistanceBucket = "near"
	DistanceFar     DistanceBucket = "far"
	DistanceUnknown DistanceBucket = "unknown"
)

// Segment is a campaign audience slice
type Segment struct {
	Purchaser bool           `json:"purchaser"`
	Distance  DistanceBucket `json:"distance"`
}

// SegmentOf classifies a customer by purchase history and distance
func SegmentOf(c *Customer) Segment {
	seg := Segment{Purchaser: c.IsPurchaser, Distance: DistanceUnknown}
	if km, ok := c.DistanceFromStoreKM(); ok {
		if km <= NearThresholdKM {
			seg.Distance = DistanceNear
		} else {
			seg.Distance = DistanceFar
		}
	}
	return seg
}

// Segmentation counts reachable customers per segment. Opted-out customers are skipped.
type Segmentation struct {
	Total   int                 `json:"total"`
	OptOut  int                 `json:"opt_out"`
	Buckets map[string]int      `json:"buckets"`
	Phones  map[string][]string `json:"-"`
}

// Key returns the segment key such as "purchaser:near"
func (s Segment) Key() string {
	p := "non_purchaser"
	if s.Purchaser {
		p = "purchaser"
	}
	return p + ":" + string(s.Distance)
}

// Segmentize splits customers into segments, keeping phone lists per segment
func Segmentize(customers []Customer) Segmentation {
	out := Segmentation{Buckets: map[string]int{}, Phones: map[string][]string{}}
	for i := range customers {
		c := &customers[i]
		if c.OptOut {
			out.OptOut++
			continue
		}
		key := SegmentOf(c).Key()
		out.Total++
		out.Buckets[key]++
		out.Phones[key] = append(out.Phones[key], c.Phone)
	}
	return out
}
