package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone8ez/domain/dataset"
	"phone8ez/internal"
)

type memoryStore struct {
	datasets dataset.Collection
	replaced int
}

func (s *memoryStore) ReplaceDatasets(datasets dataset.Collection) {
	s.datasets = datasets
	s.replaced++
}

type recordingSaver struct {
	files []File
	err   error
}

func (s *recordingSaver) Save(_ context.Context, file File) error {
	if s.err != nil {
		return s.err
	}
	s.files = append(s.files, file)
	return nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk unplugged")
}

var fixedNow = time.Date(2025, time.March, 7, 9, 5, 0, 0, time.UTC)

func newTestManager() *Manager {
	return NewManager(Config{Location: time.UTC},
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(internal.NewNopLogger()))
}

func sampleCollection() dataset.Collection {
	created := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return dataset.Collection{
		{
			ID:        "1718000000000",
			Name:      "SKT 3월",
			Type:      dataset.TypeNormal,
			CreatedAt: created,
			Data: dataset.SheetPayload{
				SheetData:    [][]string{{"모델", "SKT", "SKT"}, {"", "MNP", "기변"}, {"Galaxy S25", "100,000", "50,000"}},
				Carrier:      []string{"SKT"},
				Contract:     []string{"MNP", "기변"},
				Options:      []string{},
				RepeatCounts: map[string]int{"SKT": 2},
			},
		},
		{
			ID:        "merged",
			Name:      "통합",
			Type:      dataset.TypeIntegrated,
			CreatedAt: created.Add(time.Hour),
			Data:      dataset.SheetPayload{SheetData: [][]string{{"모델"}}},
		},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "phone8ez_250307_0905.json", FileName("phone8ez", fixedNow))

	seoul := time.FixedZone("KST", 9*60*60)
	assert.Equal(t, "phone8ez_250307_1805.json", FileName("phone8ez", fixedNow.In(seoul)))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeLocal, false},
		{"local", ModeLocal, false},
		{" Cloud ", ModeCloud, false},
		{"s3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportEmptyCollection(t *testing.T) {
	m := newTestManager()
	saver := &recordingSaver{}

	_, err := m.Export(context.Background(), nil, ModeLocal, saver)
	assert.ErrorIs(t, err, ErrEmptyCollection)

	_, err = m.Export(context.Background(), dataset.Collection{}, ModeLocal, saver)
	assert.ErrorIs(t, err, ErrEmptyCollection)

	assert.Empty(t, saver.files)
}

func TestExportWritesWholeCollection(t *testing.T) {
	m := newTestManager()
	saver := &recordingSaver{}
	input := sampleCollection()

	file, err := m.Export(context.Background(), input, ModeLocal, saver)
	require.NoError(t, err)
	require.Len(t, saver.files, 1)

	assert.Regexp(t, regexp.MustCompile(`^phone8ez_\d{6}_\d{4}\.json$`), file.Name)
	assert.Equal(t, "phone8ez_250307_0905.json", file.Name)
	assert.Equal(t, "application/json", file.ContentType)

	want, err := json.MarshalIndent(input, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(file.Body))
	assert.Equal(t, file, saver.files[0])
	assert.Len(t, file.Checksum.String(), 64)
}

func TestExportSaverFailure(t *testing.T) {
	m := newTestManager()
	saver := &recordingSaver{err: errors.New("quota exceeded")}

	_, err := m.Export(context.Background(), sampleCollection(), ModeLocal, saver)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCloudModeIsReserved(t *testing.T) {
	m := newTestManager()
	saver := &recordingSaver{}
	store := &memoryStore{datasets: sampleCollection()}

	_, err := m.Export(context.Background(), sampleCollection(), ModeCloud, saver)
	assert.ErrorIs(t, err, ErrCloudReserved)
	assert.Empty(t, saver.files)

	_, err = m.Import(context.Background(), strings.NewReader(`[{"data":{}}]`), ModeCloud, store)
	assert.ErrorIs(t, err, ErrCloudReserved)
	assert.Equal(t, 0, store.replaced)
	assert.Len(t, store.datasets, 2)
}

func TestImportValidation(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     error
		position int
		message  string
	}{
		{name: "empty file", content: "", want: ErrEmptyContent},
		{name: "whitespace only", content: " \n\t ", want: ErrEmptyContent},
		{name: "broken json", content: `[{"data":`, want: ErrMalformedJSON},
		{name: "trailing garbage", content: `[] []`, want: ErrMalformedJSON},
		{name: "object root", content: `{}`, want: ErrNotAnArray},
		{name: "string root", content: `"datasets"`, want: ErrNotAnArray},
		{name: "null root", content: `null`, want: ErrNotAnArray},
		{name: "empty array", content: `[]`, want: ErrEmptyArray},
		{name: "missing data", content: `[{"name":"x"}]`, want: ErrMissingDataField, position: 1, message: "item 1"},
		{name: "data is array", content: `[{"data":[]}]`, want: ErrMissingDataField, position: 1},
		{name: "data is null", content: `[{"data":null}]`, want: ErrMissingDataField, position: 1},
		{name: "element not object", content: `[{"data":{}}, 7]`, want: ErrInvalidElement, position: 2, message: "item 2"},
		{name: "wrong field type", content: `[{"data":{}}, {"data":{}}, {"name":5,"data":{}}]`, want: ErrInvalidElement, position: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			store := &memoryStore{datasets: sampleCollection()}
			before := store.datasets.Clone()

			got, err := m.Import(context.Background(), strings.NewReader(tt.content), ModeLocal, store)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))

			if tt.position > 0 {
				var elemErr *ElementError
				require.ErrorAs(t, err, &elemErr)
				assert.Equal(t, tt.position, elemErr.Position())
				assert.Equal(t, tt.position-1, elemErr.Index)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}

			assert.Equal(t, 0, store.replaced)
			if diff := cmp.Diff(before, store.datasets); diff != "" {
				t.Errorf("collection changed on failed import (-before +after):\n%s", diff)
			}
		})
	}
}

func TestImportMalformedQuotesParser(t *testing.T) {
	_, err := Decode([]byte(`[{"data": }]`))
	require.ErrorIs(t, err, ErrMalformedJSON)
	assert.Contains(t, err.Error(), "invalid character")
}

func TestImportReadFailure(t *testing.T) {
	m := newTestManager()
	store := &memoryStore{datasets: sampleCollection()}

	_, err := m.Import(context.Background(), failingReader{}, ModeLocal, store)
	assert.ErrorIs(t, err, ErrFileRead)
	assert.Contains(t, err.Error(), "disk unplugged")
	assert.False(t, IsValidationError(err))
	assert.Equal(t, 0, store.replaced)

	_, err = m.Import(context.Background(), nil, ModeLocal, store)
	assert.ErrorIs(t, err, ErrFileRead)
}

func TestImportRejectsOversizedFile(t *testing.T) {
	m := NewManager(Config{MaxBytes: 8}, WithLogger(internal.NewNopLogger()))
	store := &memoryStore{}

	_, err := m.Import(context.Background(), strings.NewReader(`[{"data":{}}]`), ModeLocal, store)
	assert.ErrorIs(t, err, ErrFileRead)
	assert.Equal(t, 0, store.replaced)
}

func TestImportMinimalElement(t *testing.T) {
	m := newTestManager()
	store := &memoryStore{datasets: sampleCollection()}

	got, err := m.Import(context.Background(), strings.NewReader(`[{"data":{}}]`), ModeLocal, store)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, store.replaced)
	assert.Len(t, store.datasets, 1)
}

func TestImportAcceptsBOMAndNumericIDs(t *testing.T) {
	content := "\xEF\xBB\xBF" + `[{"id": 1718000000000, "name": "KT", "type": "normal", "data": {"sheetData": [["모델"]]}}]`

	got, err := Decode([]byte(content))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, dataset.ID("1718000000000"), got[0].ID)
	assert.Equal(t, [][]string{{"모델"}}, got[0].Data.SheetData)
}

func TestImportCanceledContext(t *testing.T) {
	m := newTestManager()
	store := &memoryStore{datasets: sampleCollection()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Import(ctx, strings.NewReader(`[{"data":{}}]`), ModeLocal, store)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.replaced)
}

func TestExportImportRoundTrip(t *testing.T) {
	m := newTestManager()
	input := sampleCollection()

	var saved File
	_, err := m.Export(context.Background(), input, ModeLocal, SaverFunc(func(_ context.Context, f File) error {
		saved = f
		return nil
	}))
	require.NoError(t, err)

	store := &memoryStore{}
	got, err := m.Import(context.Background(), strings.NewReader(string(saved.Body)), ModeLocal, store)
	require.NoError(t, err)

	if diff := cmp.Diff(input, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(input, store.datasets); diff != "" {
		t.Errorf("stored collection mismatch (-want +got):\n%s", diff)
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "item 3: entry has no data object", Message(&ElementError{Index: 2, Err: ErrMissingDataField}))
	assert.Equal(t, ErrEmptyArray.Error(), Message(ErrEmptyArray))
}
