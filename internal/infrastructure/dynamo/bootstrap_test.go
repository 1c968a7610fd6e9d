package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/school-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTableAPI struct{ mock.Mock }

func (m *mockTableAPI) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, in)
	return &dynamodb.CreateTableOutput{}, args.Error(0)
}
func (m *mockTableAPI) UpdateTimeToLive(ctx context.Context, in *dynamodb.UpdateTimeToLiveInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateTimeToLiveOutput, error) {
	args := m.Called(ctx, in)
	return &dynamodb.UpdateTimeToLiveOutput{}, args.Error(0)
}

func TestBootstrap_CreatesTableAndTTL(t *testing.T) {
	api := &mockTableAPI{}
	api.On("CreateTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.CreateTableInput) bool {
		return aws.ToString(in.TableName) == "otp" &&
			len(in.KeySchema) == 2 &&
			aws.ToString(in.KeySchema[0].AttributeName) == attrUserID &&
			in.KeySchema[0].KeyType == types.KeyTypeHash
	})).Return(nil)
	api.On("UpdateTimeToLive", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateTimeToLiveInput) bool {
		return aws.ToString(in.TimeToLiveSpecification.AttributeName) == "expires_at" &&
			aws.ToBool(in.TimeToLiveSpecification.Enabled)
	})).Return(nil)

	Bootstrap(context.Background(), api, config.DynamoTables{UserVerifications: "otp"})
	api.AssertExpectations(t)
}

func TestBootstrap_ExistingTableStillEnablesTTL(t *testing.T) {
	api := &mockTableAPI{}
	api.On("CreateTable", mock.Anything, mock.Anything).Return(&types.ResourceInUseException{Message: aws.String("exists")})
	api.On("UpdateTimeToLive", mock.Anything, mock.Anything).Return(errors.New("ttl already enabled"))

	assert.NotPanics(t, func() {
		Bootstrap(context.Background(), api, config.DynamoTables{UserVerifications: "otp"})
	})
	api.AssertNumberOfCalls(t, "UpdateTimeToLive", 1)
}
