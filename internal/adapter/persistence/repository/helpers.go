package repository

import (
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Items reuse the entities' json tags so the stored attribute names match the API.
func marshalItem(in any) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMapWithOptions(in, func(o *attributevalue.EncoderOptions) {
		o.TagKey = "json"
	})
}

func unmarshalItem(av map[string]types.AttributeValue, out any) error {
	return attributevalue.UnmarshalMapWithOptions(av, out, func(o *attributevalue.DecoderOptions) {
		o.TagKey = "json"
	})
}
