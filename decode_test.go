package arbiter

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DecodeTestSuite struct {
	suite.Suite
	reg  *Registry
	wire []byte
}

func (s *DecodeTestSuite) SetupTest() {
	s.reg = NewRegistry()
	var err error
	s.wire, err = s.reg.Encode(&scenario{ID: 42, Name: "hi"})
	s.Require().NoError(err)
}

// corrupt returns a copy of the scenario bytes with b written at i.
func (s *DecodeTestSuite) corrupt(i int, b ...byte) []byte {
	out := bytes.Clone(s.wire)
	copy(out[i:], b)
	return out
}

func (s *DecodeTestSuite) decode(data []byte) (Fingerprint, error) {
	return s.reg.Decode(bytes.NewReader(data))
}

func (s *DecodeTestSuite) TestFingerprint() {
	fp, err := s.decode(s.wire)
	s.Require().NoError(err)
	s.Equal(Fingerprint{Int, String}, fp)
	s.Equal("[Int String]", fp.String())

	schema, err := s.reg.Register(&scenario{})
	s.Require().NoError(err)
	s.True(schema.Matches(fp))
}

func (s *DecodeTestSuite) TestLeavesFollowingObjectUnread() {
	r := bytes.NewReader(append(bytes.Clone(s.wire), s.wire...))
	_, err := s.reg.Decode(r)
	s.Require().NoError(err)
	s.Equal(len(s.wire), r.Len())
}

func (s *DecodeTestSuite) TestFramingErrors() {
	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"BadMagic", s.corrupt(0, 'X'), ErrNotZNA},
		{"BadVersion", s.corrupt(3, 2), ErrUnsupportedVersion},
		{"BadTerminator", s.corrupt(len(s.wire)-1, 0xFE), ErrMalformedTerminator},
		{"UnknownType", s.corrupt(6, 0x0A), ErrInvalidType},
		{"Truncated", s.wire[:len(s.wire)-3], ErrTruncatedData},
		{"TruncatedInPreamble", s.wire[:4], ErrTruncatedData},
		{"OptionalAdvanced", s.corrupt(11, 0x87), ErrOptionalUnsupported},
		{"ArrayOfStrings", []byte{'Z', 'N', 'A', 1, 0, 1, 0x08, 0x07, 0x01, 'x', 0xFF}, ErrInvalidArray},
		{"RaggedArray", []byte{'Z', 'N', 'A', 1, 0, 1, 0x08, 0x03, 0x03, 1, 2, 3, 0xFF}, ErrInvalidArray},
		{"EmptyArray", []byte{'Z', 'N', 'A', 1, 0, 1, 0x08, 0x01, 0x00, 0xFF}, ErrInvalidArray},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.decode(tc.data)
			s.ErrorIs(err, tc.want)
			s.Equal(KindFraming, KindOf(err), "%v", err)
		})
	}
}

func (s *DecodeTestSuite) TestOutOfOrder() {
	data := []byte{'Z', 'N', 'A', 1, 0, 2, 0x07, 0x01, 0x03, 0, 0, 0, 1, 'x', 0xFF}
	_, err := s.decode(data)
	s.ErrorIs(err, ErrOutOfOrderElements)
	s.Equal(KindOutOfOrderElements, KindOf(err))
}

func (s *DecodeTestSuite) TestSubObject() {
	_, err := s.decode([]byte{'Z', 'N', 'A', 1, 0, 1, 0x09, 0xFF})
	s.ErrorIs(err, ErrUnimplemented)
	s.Equal(KindUnimplemented, KindOf(err))
}

func (s *DecodeTestSuite) TestOptionalAbsentHasNoPayload() {
	data, err := s.reg.Encode(&optionals{C: 3})
	s.Require().NoError(err)
	fp, err := s.decode(data)
	s.Require().NoError(err)
	s.Equal(Fingerprint{Int, Boolean, Byte}, fp)
}

func (s *DecodeTestSuite) TestCleanEOF() {
	_, err := s.decode(nil)
	s.ErrorIs(err, io.EOF)
	s.Equal(KindTransport, KindOf(err))
}

func TestDecode(t *testing.T) {
	suite.Run(t, new(DecodeTestSuite))
}

func TestDecodePackageHelper(t *testing.T) {
	data, err := Marshal(&byteArray{Data: []uint8{9}})
	require.NoError(t, err)
	fp, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Fingerprint{Byte}, fp)
}
