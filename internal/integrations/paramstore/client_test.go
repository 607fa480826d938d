package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	getOut *ssm.GetParameterOutput
	getErr error
	in     *ssm.GetParameterInput
}

func (f *fakeAPI) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.in = in
	return f.getOut, f.getErr
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")
}

func TestGetParameter_DecryptsAndTrimsName(t *testing.T) {
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name:  aws.String("/canvas-agent/open-ai-token"),
		Value: aws.String(`{"token":"sk"}`),
		Type:  types.ParameterTypeSecureString,
	}}}
	client, err := New(api)
	require.NoError(t, err)

	v, err := client.GetParameter(context.Background(), " /canvas-agent/open-ai-token ")
	require.NoError(t, err)
	require.Equal(t, `{"token":"sk"}`, v)
	require.Equal(t, "/canvas-agent/open-ai-token", aws.ToString(api.in.Name))
	require.True(t, aws.ToBool(api.in.WithDecryption))
}

func TestGetParameter_Errors(t *testing.T) {
	cases := []struct {
		name     string
		api      *fakeAPI
		param    string
		want     string
		notFound bool
	}{
		{name: "missing value", api: &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: aws.String("p")}}}, param: "p", want: "has no value"},
		{name: "nil output", api: &fakeAPI{}, param: "p", want: "has no value"},
		{name: "api error", api: &fakeAPI{getErr: errors.New("boom")}, param: "p", want: "boom"},
		{name: "not found", api: &fakeAPI{getErr: &types.ParameterNotFound{}}, param: "/absent", want: `"/absent"`, notFound: true},
		{name: "empty name", api: &fakeAPI{}, param: "  ", want: "required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := New(tc.api)
			require.NoError(t, err)
			_, err = client.GetParameter(context.Background(), tc.param)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
			require.Equal(t, tc.notFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestGetParameter_ClientNotInitialized(t *testing.T) {
	_, err := (&Client{}).GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not initialized")
}

func TestStatic_GetParameter(t *testing.T) {
	s := Static{"/canvas-agent/open-ai-token": "sk-dev"}
	v, err := s.GetParameter(context.Background(), " /canvas-agent/open-ai-token ")
	require.NoError(t, err)
	require.Equal(t, "sk-dev", v)

	_, err = s.GetParameter(context.Background(), "/missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestName(t *testing.T) {
	require.Equal(t, "/canvas-agent/open-ai-token", Name("/canvas-agent/", "/open-ai-token"))
	require.Equal(t, "/canvas-agent/gemini-api-key", Name(" /canvas-agent", "gemini-api-key"))
	require.Equal(t, "/open-ai-token", Name("", "open-ai-token"))
}
