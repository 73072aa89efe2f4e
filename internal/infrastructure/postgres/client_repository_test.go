package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
)

var clientCols = []string{
	"id", "first_name", "last_name", "email", "phone", "address",
	"identification_type", "identification_number", "created_at", "updated_at",
}

type ClientRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo *ClientRepo
	ctx  context.Context
}

func (s *ClientRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.repo = NewClientRepository(mock)
	s.ctx = context.Background()
}

func (s *ClientRepoTestSuite) TearDownTest() {
	s.mock.Close()
}

func TestClientRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ClientRepoTestSuite))
}

func (s *ClientRepoTestSuite) newClient() *entity.Client {
	now := time.Now()
	return &entity.Client{ID: uuid.NewString(), FirstName: "Ana", LastName: "Pérez", CreatedAt: now, UpdatedAt: now}
}

func (s *ClientRepoTestSuite) TestCreate_SinIdentificacionGuardaNull() {
	c := s.newClient()
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO clients")).
		WithArgs(c.ID, "Ana", "Pérez", "", "", "", entity.DefaultIdentificationType, (*string)(nil), c.CreatedAt, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s.Require().NoError(s.repo.Create(s.ctx, c))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ClientRepoTestSuite) TestCreate_IdentificacionDuplicada() {
	c := s.newClient()
	c.IdentificationNumber = "12345678"
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO clients")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_clients_identification"})

	s.ErrorIs(s.repo.Create(s.ctx, c), domain.ErrDuplicate)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ClientRepoTestSuite) TestUpdate_NoEncontrado() {
	c := s.newClient()
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE clients SET")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	s.ErrorIs(s.repo.Update(s.ctx, c), domain.ErrNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ClientRepoTestSuite) TestGetByIdentification_NoExisteDevuelveNil() {
	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE identification_number = $1")).
		WithArgs("999").
		WillReturnRows(pgxmock.NewRows(clientCols))

	c, err := s.repo.GetByIdentification(s.ctx, "999")
	s.Require().NoError(err)
	s.Nil(c)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ClientRepoTestSuite) TestList_BusquedaYPaginacion() {
	now := time.Now()
	number := "4455"
	pattern := "%car%"
	s.mock.ExpectQuery(regexp.QuoteMeta("first_name ILIKE $1 OR last_name ILIKE $2 OR email ILIKE $3 OR identification_number ILIKE $4")).
		WithArgs(pattern, pattern, pattern, pattern).
		WillReturnRows(pgxmock.NewRows(clientCols).
			AddRow(uuid.NewString(), "Carla", "Mora", "", "", "", "DNI", &number, now, now).
			AddRow(uuid.NewString(), "Oscar", "Ruiz", "", "", "", "DNI", (*string)(nil), now, now))

	list, err := s.repo.List(s.ctx, repository.ClientFilter{Search: "car", Limit: 10, Offset: 5})
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("4455", list[0].IdentificationNumber)
	s.Empty(list[1].IdentificationNumber)
	s.NoError(s.mock.ExpectationsWereMet())
}
