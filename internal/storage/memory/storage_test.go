package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bakery2048/internal/storage"
)

type BackendSuite struct {
	suite.Suite
	backend *Backend
	ctx     context.Context
}

func TestBackendSuite(t *testing.T) {
	suite.Run(t, new(BackendSuite))
}

func (s *BackendSuite) SetupTest() {
	s.backend = New("tiles")
	s.ctx = context.Background()
}

func (s *BackendSuite) TestReadEmpty() {
	_, err := s.backend.Read(s.ctx)
	s.ErrorIs(err, storage.ErrNotExist)
	s.Nil(s.backend.Data())
}

func (s *BackendSuite) TestWriteThenRead() {
	s.Require().NoError(s.backend.Write(s.ctx, []byte("[]")))

	data, err := s.backend.Read(s.ctx)
	s.Require().NoError(err)
	s.Equal("[]", string(data))
}

func (s *BackendSuite) TestReadReturnsCopy() {
	s.backend.SetData([]byte("[1]"))

	data, err := s.backend.Read(s.ctx)
	s.Require().NoError(err)
	data[1] = '2'
	s.Equal("[1]", string(s.backend.Data()))
}

func (s *BackendSuite) TestInjectedFailures() {
	boom := errors.New("boom")
	s.backend.FailWrites(boom)
	s.ErrorIs(s.backend.Write(s.ctx, []byte("[]")), boom)

	s.backend.FailReads(boom)
	_, err := s.backend.Read(s.ctx)
	s.ErrorIs(err, boom)

	s.backend.FailWrites(nil)
	s.backend.FailReads(nil)
	s.NoError(s.backend.Write(s.ctx, []byte("[]")))
}

func (s *BackendSuite) TestLocation() {
	s.Equal("memory:tiles", s.backend.Location())
}
