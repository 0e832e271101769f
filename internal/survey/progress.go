package survey

import "math"

// ComputeProgress returns the share of required fields answered, as a whole percentage.
// Optional fields never count.
func ComputeProgress(resp Response) int {
	required := RequiredFieldIDs()
	if len(required) == 0 {
		return 0
	}

	answered := 0
	for _, id := range required {
		if resp.Answered(id) {
			answered++
		}
	}

	return int(math.Round(100 * float64(answered) / float64(len(required))))
}
