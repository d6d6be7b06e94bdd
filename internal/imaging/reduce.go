package imaging

// reduceQualities are tried in order until one produces a big enough saving.
var reduceQualities = []int{85, 75, 65, 55, 45}

// reduceTarget is the fraction of the original size that counts as a
// significant reduction.
const reduceTarget = 0.7

// Reduce recompresses data as JPEG at decreasing quality. It stops at the
// first quality that gets below 70% of the original size, otherwise it keeps
// the smallest attempt. When no attempt is smaller than the input, the
// input is returned unchanged.
func (p *Processor) Reduce(data []byte) ([]byte, error) {
	img, _, err := p.Decode(data)
	if err != nil {
		return nil, err
	}

	original := len(data)
	best := data
	for _, q := range reduceQualities {
		out, err := EncodeJPEG(img, q)
		if err != nil {
			return nil, err
		}
		if float64(len(out)) < float64(original)*reduceTarget {
			best = out
			break
		}
		if len(out) < len(best) {
			best = out
		}
	}
	return best, nil
}
