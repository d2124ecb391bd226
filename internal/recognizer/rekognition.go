package recognizer

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"

	"github.com/spec-kit/face-lock-service/internal/config"
)

// rekognitionGateway implements Gateway on top of an AWS Rekognition face
// collection. Subjects are correlated through ExternalImageId.
type rekognitionGateway struct {
	client       *rekognition.Client
	collectionID string
	callTimeout  time.Duration
	logger       *zap.Logger
}

// NewRekognitionGateway connects to Rekognition and makes sure the configured
// face collection exists, creating it on first run.
func NewRekognitionGateway(ctx context.Context, cfg config.RekognitionConfig, logger *zap.Logger) (Gateway, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}

	g := &rekognitionGateway{
		client:       rekognition.NewFromConfig(awsCfg),
		collectionID: cfg.CollectionID,
		callTimeout:  cfg.CallTimeout(),
		logger:       logger,
	}

	if err := g.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *rekognitionGateway) ensureCollection(ctx context.Context) error {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	_, err := g.client.CreateCollection(ctx, &rekognition.CreateCollectionInput{
		CollectionId: aws.String(g.collectionID),
	})
	if err != nil {
		var exists *types.ResourceAlreadyExistsException
		if errors.As(err, &exists) {
			g.logger.Info("face collection already exists", zap.String("collection_id", g.collectionID))
			return nil
		}
		return &GatewayError{Op: "create collection", Err: err}
	}

	g.logger.Info("created face collection", zap.String("collection_id", g.collectionID))
	return nil
}

// IndexFace enrolls the face found in image under userID.
func (g *rekognitionGateway) IndexFace(ctx context.Context, userID string, image []byte) (*FaceRecord, error) {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	out, err := g.client.IndexFaces(ctx, &rekognition.IndexFacesInput{
		CollectionId:        aws.String(g.collectionID),
		Image:               &types.Image{Bytes: image},
		ExternalImageId:     aws.String(userID),
		DetectionAttributes: []types.Attribute{types.AttributeAll},
	})
	if err != nil {
		return nil, classify("index faces", err)
	}

	if len(out.FaceRecords) == 0 {
		return nil, ErrNoFaceDetected
	}

	face := out.FaceRecords[0].Face
	record := &FaceRecord{
		UserID:     userID,
		FaceID:     aws.ToString(face.FaceId),
		Confidence: float64(aws.ToFloat32(face.Confidence)),
	}
	g.logger.Info("indexed face",
		zap.String("user_id", userID),
		zap.String("face_id", record.FaceID))
	return record, nil
}

// SearchFace returns the single best match above minSimilarity.
func (g *rekognitionGateway) SearchFace(ctx context.Context, image []byte, minSimilarity float64) (*Match, error) {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	out, err := g.client.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(g.collectionID),
		Image:              &types.Image{Bytes: image},
		MaxFaces:           aws.Int32(1),
		FaceMatchThreshold: aws.Float32(float32(minSimilarity)),
	})
	if err != nil {
		return nil, classify("search faces", err)
	}

	if len(out.FaceMatches) == 0 {
		return nil, ErrNoMatch
	}

	best := out.FaceMatches[0]
	return &Match{
		UserID:     aws.ToString(best.Face.ExternalImageId),
		FaceID:     aws.ToString(best.Face.FaceId),
		Similarity: float64(aws.ToFloat32(best.Similarity)),
	}, nil
}

// DeleteSubject removes all face records enrolled under userID.
func (g *rekognitionGateway) DeleteSubject(ctx context.Context, userID string) (int, error) {
	faceIDs, err := g.faceIDsForSubject(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(faceIDs) == 0 {
		return 0, ErrSubjectNotFound
	}

	ctx, cancel := g.callContext(ctx)
	defer cancel()

	if _, err := g.client.DeleteFaces(ctx, &rekognition.DeleteFacesInput{
		CollectionId: aws.String(g.collectionID),
		FaceIds:      faceIDs,
	}); err != nil {
		return 0, classify("delete faces", err)
	}

	g.logger.Info("deleted faces",
		zap.String("user_id", userID),
		zap.Int("count", len(faceIDs)))
	return len(faceIDs), nil
}

// ListSubjects returns the distinct subject identifiers in the collection.
func (g *rekognitionGateway) ListSubjects(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	subjects := make([]string, 0)

	paginator := rekognition.NewListFacesPaginator(g.client, &rekognition.ListFacesInput{
		CollectionId: aws.String(g.collectionID),
	})
	for paginator.HasMorePages() {
		pageCtx, cancel := g.callContext(ctx)
		page, err := paginator.NextPage(pageCtx)
		cancel()
		if err != nil {
			return nil, classify("list faces", err)
		}
		for _, face := range page.Faces {
			id := aws.ToString(face.ExternalImageId)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				subjects = append(subjects, id)
			}
		}
	}

	return subjects, nil
}

func (g *rekognitionGateway) faceIDsForSubject(ctx context.Context, userID string) ([]string, error) {
	var faceIDs []string

	paginator := rekognition.NewListFacesPaginator(g.client, &rekognition.ListFacesInput{
		CollectionId: aws.String(g.collectionID),
	})
	for paginator.HasMorePages() {
		pageCtx, cancel := g.callContext(ctx)
		page, err := paginator.NextPage(pageCtx)
		cancel()
		if err != nil {
			return nil, classify("list faces", err)
		}
		for _, face := range page.Faces {
			if aws.ToString(face.ExternalImageId) == userID {
				faceIDs = append(faceIDs, aws.ToString(face.FaceId))
			}
		}
	}

	return faceIDs, nil
}

func (g *rekognitionGateway) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.callTimeout)
}

// classify maps Rekognition failures onto the gateway contract. Rekognition
// reports a probe image without a detectable face as InvalidParameterException,
// which is a rejection here, not a fault.
func classify(op string, err error) error {
	var invalidParam *types.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return ErrNoFaceDetected
	}
	return &GatewayError{Op: op, Err: err}
}
