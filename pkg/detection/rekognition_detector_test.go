package detection

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRekognition struct {
	output *rekognition.DetectLabelsOutput
	err    error
	input  *rekognition.DetectLabelsInput
}

func (f *fakeRekognition) DetectLabels(_ context.Context, params *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.input = params
	return f.output, f.err
}

func TestRekognitionDetector_ExpandsInstances(t *testing.T) {
	client := &fakeRekognition{output: &rekognition.DetectLabelsOutput{
		Labels: []types.Label{
			{
				Name:       aws.String("Apple"),
				Confidence: aws.Float32(95),
				Instances: []types.Instance{
					{Confidence: aws.Float32(90), BoundingBox: &types.BoundingBox{Left: aws.Float32(0.1), Top: aws.Float32(0.1), Width: aws.Float32(0.2), Height: aws.Float32(0.2)}},
					{Confidence: aws.Float32(60)},
				},
			},
			{Name: aws.String("Food"), Confidence: aws.Float32(99)},
		},
	}}
	detector := NewRekognitionDetector(client)

	raw, err := detector.Detect(context.Background(), []byte("not-an-image"), 0.5)

	require.NoError(t, err)
	require.Len(t, raw, 3)
	assert.Equal(t, "Apple", raw[0].Label)
	assert.InDelta(t, 0.9, raw[0].Confidence, 1e-6)
	require.NotNil(t, raw[0].Box)
	assert.InDelta(t, 0.3, raw[0].Box.X2, 1e-6)
	assert.InDelta(t, 0.6, raw[1].Confidence, 1e-6)
	assert.Nil(t, raw[1].Box)
	assert.Equal(t, "Food", raw[2].Label)
	assert.InDelta(t, 0.99, raw[2].Confidence, 1e-6)

	assert.Equal(t, int32(rekognitionMaxLabels), aws.ToInt32(client.input.MaxLabels))
	assert.InDelta(t, 50, aws.ToFloat32(client.input.MinConfidence), 1e-3)
}

func TestRekognitionDetector_PropagatesError(t *testing.T) {
	detector := NewRekognitionDetector(&fakeRekognition{err: errors.New("throttled")})

	_, err := detector.Detect(context.Background(), []byte("img"), 0.25)

	assert.ErrorContains(t, err, "throttled")
}
