package ogimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
)

func testRepo() *content.Repository {
	return content.NewRepository(
		[]content.BlogPost{{ID: "zk", Title: "ZK Rollups", Author: "Alice Moreau", Date: "2024-03-15", Content: []string{"p"}}},
		[]content.Project{{
			ID: "nft", Title: "Nebula NFT Marketplace", Subtitle: "Minting at scale",
			Featured: true, Tags: []string{"Solidity", "Next.js", "IPFS", "The Graph", "Hardhat"},
		}},
		[]content.TeamMember{{ID: "elodie", Name: "Élodie Marchand", Role: "Engineer", Skills: []string{"Go", "Rust", "Solidity", "K8s"}}},
	)
}

func quietRenderer(assets fstest.MapFS, logo string) *Renderer {
	r := &Renderer{LogoName: logo, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if assets != nil {
		r.Assets = assets
	}
	return r
}

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	fillRect(img, img.Bounds(), c)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func countPixels(img *image.RGBA, match func(c color.RGBA) bool) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if match(img.RGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}

func isRed(c color.RGBA) bool  { return c.R > 200 && c.G < 50 && c.B < 50 }
func isBrand(c color.RGBA) bool { return c == colorBrand }

func TestCardFor(t *testing.T) {
	repo := testRepo()

	card, found := CardFor(repo, KindBlog, "zk")
	require.True(t, found)
	assert.Equal(t, "Blog Post", card.Badge)
	assert.Equal(t, "by Alice Moreau", card.Subtitle)

	card, found = CardFor(repo, KindWork, "nft")
	require.True(t, found)
	assert.Equal(t, "Featured Project", card.Ribbon)
	assert.Equal(t, []string{"Solidity", "Next.js", "IPFS", "The Graph"}, card.Chips)

	card, found = CardFor(repo, KindProjects, "nft")
	require.True(t, found)
	assert.Equal(t, "SQRT Labs Project", card.Subtitle)

	card, found = CardFor(repo, KindTeam, "elodie")
	require.True(t, found)
	require.NotNil(t, card.Avatar)
	assert.Equal(t, "É", card.Avatar.Glyph)
	assert.Empty(t, card.Avatar.ImagePath)
	assert.Equal(t, "Go • Rust • Solidity", card.Footer)
}

func TestCardForMissing(t *testing.T) {
	repo := testRepo()
	tests := map[Kind]string{
		KindBlog:     "Blog Post Not Found",
		KindProjects: "Project Not Found",
		KindWork:     "Project Not Found",
		KindTeam:     "Team Member Not Found",
	}
	for kind, msg := range tests {
		card, found := CardFor(repo, kind, "nope")
		assert.False(t, found, kind)
		assert.True(t, card.NotFound, kind)
		assert.Equal(t, BrandName, card.Title)
		assert.Equal(t, msg, card.Subtitle)
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("work")
	assert.True(t, ok)
	assert.Equal(t, KindWork, k)
	assert.Equal(t, content.StoreProjects, k.Store())

	_, ok = ParseKind("site")
	assert.False(t, ok)
}

func TestRenderProducesPNG(t *testing.T) {
	r := quietRenderer(nil, "")
	repo := testRepo()
	cards := []Card{SiteCard(), NotFoundCard(KindBlog)}
	for _, kind := range EntityKinds {
		card, _ := CardFor(repo, kind, repo.Blog.IDs()[0])
		cards = append(cards, card)
		card, _ = CardFor(repo, kind, "nft")
		cards = append(cards, card)
	}

	for _, card := range cards {
		data, err := r.Render(card)
		require.NoError(t, err, card.Kind)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, Width, Height), img.Bounds())
	}
}

func TestTeamAvatarFromAssets(t *testing.T) {
	assets := fstest.MapFS{"team/red.png": {Data: solidPNG(t, color.RGBA{0xff, 0, 0, 0xff})}}
	r := quietRenderer(assets, "")
	card := TeamCard(&content.TeamMember{Name: "Red", Role: "Tester", Image: "/team/red.png"})

	img, err := r.Draw(card)
	require.NoError(t, err)
	assert.Greater(t, countPixels(img, isRed), 10000)
}

func TestTeamAvatarFallsBackToInitial(t *testing.T) {
	assets := fstest.MapFS{"team/broken.png": {Data: []byte("not an image")}}
	r := quietRenderer(assets, "")

	for _, p := range []string{"/team/broken.png", "/team/missing.png", "https://cdn.example.com/a.png", "../../etc/passwd"} {
		card := TeamCard(&content.TeamMember{Name: "Red", Role: "Tester", Image: p})
		img, err := r.Draw(card)
		require.NoError(t, err, p)
		assert.Zero(t, countPixels(img, isRed), p)
		assert.Greater(t, countPixels(img, func(c color.RGBA) bool { return c == colorIndigo100 }), 5000, p)
	}
}

func TestLogoFallback(t *testing.T) {
	card := TeamCard(&content.TeamMember{Name: "Bob", Role: "Designer"})

	missing := quietRenderer(fstest.MapFS{}, "sqrtlabs-icon.png")
	img, err := missing.Draw(card)
	require.NoError(t, err)
	assert.Greater(t, countPixels(img, isBrand), 500, "drawn brand mark expected")

	green := color.RGBA{0, 0xc0, 0, 0xff}
	present := quietRenderer(fstest.MapFS{"sqrtlabs-icon.png": {Data: solidPNG(t, green)}}, "sqrtlabs-icon.png")
	img, err = present.Draw(card)
	require.NoError(t, err)
	assert.Zero(t, countPixels(img, isBrand))
	assert.Greater(t, countPixels(img, func(c color.RGBA) bool { return c.G > 150 && c.R < 50 && c.B < 50 }), 1000)
}

func TestWrapClampsLines(t *testing.T) {
	set, err := loadFonts()
	require.NoError(t, err)
	faces := newFaceCache(set)
	defer faces.close()
	face := faces.face(56, true)

	short := wrap(face, "ZK Rollups", 1000, 3)
	assert.Equal(t, []string{"ZK Rollups"}, short)

	long := wrap(face, strings.Repeat("blockchain products that make sense ", 12), 600, 3)
	require.Len(t, long, 3)
	assert.True(t, strings.HasSuffix(long[2], ellipsis))
	for _, l := range long {
		assert.LessOrEqual(t, textWidth(face, l), 600)
	}

	word := wrap(face, strings.Repeat("x", 200), 300, 2)
	require.Len(t, word, 2)
	assert.True(t, strings.HasSuffix(word[1], ellipsis))

	assert.Nil(t, wrap(face, "   ", 300, 2))
}

func TestRoundedMask(t *testing.T) {
	m := newRoundedMask(image.Rect(0, 0, 100, 100), 50)
	assert.Equal(t, uint8(0xff), m.At(50, 50).(color.Alpha).A)
	assert.Equal(t, uint8(0), m.At(0, 0).(color.Alpha).A)
	assert.Equal(t, uint8(0), m.At(200, 200).(color.Alpha).A)

	square := newRoundedMask(image.Rect(0, 0, 10, 10), 0)
	assert.Equal(t, uint8(0xff), square.At(0, 0).(color.Alpha).A)
}

func TestCoverRect(t *testing.T) {
	assert.Equal(t, image.Rect(10, 0, 40, 30), coverRect(image.Rect(0, 0, 50, 30)))
	assert.Equal(t, image.Rect(0, 5, 20, 25), coverRect(image.Rect(0, 0, 20, 30)))
}
