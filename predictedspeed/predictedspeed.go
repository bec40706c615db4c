// Package predictedspeed implements the DCT-II/DCT-III codec used to pack a
// week of historical average speeds into 200 quantized coefficients per
// edge, and the base64 on-disk encoding Valhalla tiles use for them.
//
// The term "predicted speed" is kept from the upstream format, though these
// values are really a compressed week-long histogram of average speeds
// rather than a live prediction.
package predictedspeed

import (
	"encoding/base64"
	"fmt"
	"math"
	"sync"
)

// BucketSizeMinutes is the width of one time-of-week bucket.
const BucketSizeMinutes = 5

const bucketSizeSeconds = BucketSizeMinutes * 60

// BucketsPerWeek is the number of fixed-size buckets spanning a week.
const BucketsPerWeek = 7 * 24 * 60 / BucketSizeMinutes

// CoefficientCount is the number of DCT coefficients retained per edge.
const CoefficientCount = 200

// decodedSize is the number of bytes needed to store CoefficientCount
// big-endian int16 values.
const decodedSize = 2 * CoefficientCount

var (
	cosTableOnce sync.Once
	cosTable     [BucketsPerWeek][CoefficientCount]float32
)

func buildCosTable() {
	const piBucketConst = math.Pi / float64(BucketsPerWeek)
	speedNorm := math.Sqrt(2.0 / float64(BucketsPerWeek))

	for bucket := 0; bucket < BucketsPerWeek; bucket++ {
		bucketCenter := float64(bucket) + 0.5
		row := &cosTable[bucket]

		row[0] = float32(math.Cos(piBucketConst*bucketCenter*0) * speedNorm * math.Sqrt2 / 2)
		for c := 1; c < CoefficientCount; c++ {
			row[c] = float32(math.Cos(piBucketConst*bucketCenter*float64(c)) * speedNorm)
		}
	}
}

// cosRow returns the precomputed, pre-scaled cosine row for a bucket.
func cosRow(bucket int) *[CoefficientCount]float32 {
	cosTableOnce.Do(buildCosTable)
	return &cosTable[bucket]
}

// CompressSpeedBuckets applies a DCT-II over a full week of kph speed
// samples (one per bucket), quantizing the result to int16 coefficients.
func CompressSpeedBuckets(speeds *[BucketsPerWeek]float32) [CoefficientCount]int16 {
	var acc [CoefficientCount]float32
	for bucket, speed := range speeds {
		row := cosRow(bucket)
		for c, basis := range row {
			acc[c] += speed * basis
		}
	}
	var out [CoefficientCount]int16
	for i, v := range acc {
		out[i] = int16(math.Round(float64(v)))
	}
	return out
}

// DecompressSpeedBucket recovers a single bucket's speed (kph) from the
// compressed coefficients via DCT-III.
func DecompressSpeedBucket(coefficients *[CoefficientCount]int16, bucketIdx int) float32 {
	row := cosRow(bucketIdx)
	var s float32
	for i, basis := range row {
		s += basis * float32(coefficients[i])
	}
	return s
}

// EncodeCompressedSpeeds packs coefficients as big-endian int16s and
// base64-encodes the result, matching the on-disk C++ representation.
func EncodeCompressedSpeeds(coefficients *[CoefficientCount]int16) string {
	raw := make([]byte, decodedSize)
	for i, c := range coefficients {
		raw[2*i] = byte(uint16(c) >> 8)
		raw[2*i+1] = byte(uint16(c))
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeCompressedSpeeds reverses EncodeCompressedSpeeds, failing if the
// decoded payload is not exactly decodedSize bytes.
func DecodeCompressedSpeeds(encoded string) (*[CoefficientCount]int16, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("predictedspeed: base64 decode: %w", err)
	}
	if len(raw) != decodedSize {
		return nil, fmt.Errorf("predictedspeed: incorrect byte count: found %d, expected %d", len(raw), decodedSize)
	}
	var out [CoefficientCount]int16
	for i := range out {
		out[i] = int16(uint16(raw[2*i])<<8 | uint16(raw[2*i+1]))
	}
	return &out, nil
}

// BucketForSecondsFromStartOfWeek converts a seconds-from-Sunday-midnight
// local-time offset into a bucket index, reporting ok=false when the
// value falls outside a single week.
func BucketForSecondsFromStartOfWeek(seconds uint32) (bucket int, ok bool) {
	b := int(seconds / bucketSizeSeconds)
	if b >= BucketsPerWeek {
		return 0, false
	}
	return b, true
}

// Profiles is a flat, tile-owned view over predicted-speed data: one
// offset per directed edge (measured in coefficients, not bytes) into a
// shared buffer of profiles, each CoefficientCount coefficients long.
type Profiles struct {
	Offsets  []uint32
	Profiles []int16
}

// Speed returns the predicted speed (kph) for a directed edge at a given
// time, or ok=false if the bucket or offset is out of range. Callers are
// responsible for checking the edge's has-predicted-speed flag first; an
// edge without that flag has no sentinel here and will return whatever
// the raw tile bytes happen to decode to.
func (p Profiles) Speed(directedEdgeIndex int, secondsFromStartOfWeek uint32) (float32, bool) {
	bucket, ok := BucketForSecondsFromStartOfWeek(secondsFromStartOfWeek)
	if !ok {
		return 0, false
	}
	if directedEdgeIndex < 0 || directedEdgeIndex >= len(p.Offsets) {
		return 0, false
	}
	start := int(p.Offsets[directedEdgeIndex])
	if start < 0 || start+CoefficientCount > len(p.Profiles) {
		return 0, false
	}
	var coeffs [CoefficientCount]int16
	copy(coeffs[:], p.Profiles[start:start+CoefficientCount])
	return DecompressSpeedBucket(&coeffs, bucket), true
}
