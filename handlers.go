package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pitchtank/models"
	"pitchtank/pkg/form"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	r.Static("/files", uploadBaseDir())
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.GET("/submission/user/:id", getSubmissionHandler)
	authGroup.POST("/submission", createSubmissionHandler)
	authGroup.PUT("/submission/user/:id", updateSubmissionHandler)
	authGroup.POST("/submission/upload-document", uploadDocumentHandler)
	authGroup.DELETE("/submission/user/:id/document", deleteDocumentHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ?", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

func meHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     roleNameFor(user),
	})
}

// subjectUserID extracts the :id path param and checks the caller is
// that user or an administrator.
func subjectUserID(c *gin.Context, user *models.User) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	id := uint(id64)
	role, _ := c.Get("role")
	if role != "administrator" && id != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return 0, false
	}
	return id, true
}

// filterWirePayload keeps only known submission wire fields, with string
// values, so clients cannot write arbitrary columns through the
// map-based update path.
func filterWirePayload(in map[string]any) map[string]any {
	out := map[string]any{}
	for _, k := range form.WireKeys() {
		if v, ok := in[k]; ok {
			if s, ok := v.(string); ok {
				out[k] = strings.TrimSpace(s)
			}
		}
	}
	return out
}

// getSubmissionHandler returns the user's submission; absence is a 404
// the client treats as "no submission yet", not a failure.
func getSubmissionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := subjectUserID(c, user)
	if !ok {
		return
	}
	var sub models.Submission
	if err := db.Where("user_id = ?", id).First(&sub).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// createSubmissionHandler creates the caller's submission from a
// partial wire payload. A second create for the same user is a 409 so
// the client can fall back to an update.
func createSubmissionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var existing models.Submission
	if err := db.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "submission already exists"})
		return
	}
	sub := models.Submission{UserID: user.ID}
	if err := db.Create(&sub).Error; err != nil {
		if isUniqueConstraintError(err) { // race after the initial check
			c.JSON(http.StatusConflict, gin.H{"error": "submission already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	if payload := filterWirePayload(req); len(payload) > 0 {
		if err := db.Model(&sub).Updates(payload).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"id": sub.ID})
}

// updateSubmissionHandler applies a full or partial update to an
// existing submission.
func updateSubmissionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := subjectUserID(c, user)
	if !ok {
		return
	}
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var sub models.Submission
	if err := db.Where("user_id = ?", id).First(&sub).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}
	if payload := filterWirePayload(req); len(payload) > 0 {
		if err := db.Model(&sub).Updates(payload).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "saved"})
}

var deckExtensions = map[string]bool{
	".pdf": true, ".ppt": true, ".pptx": true, ".key": true,
	".png": true, ".jpg": true, ".jpeg": true,
}

// uploadDocumentHandler stores a pitch deck for the current user,
// replacing any previous one, and links it to the submission if a row
// exists. Uploading never creates the submission itself; that is the
// wizard's job.
func uploadDocumentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 20*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 20MB)"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !deckExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}
	base := uuid.NewString()
	relPath := "decks/" + base + ext
	fullPath := filepath.Join(uploadBaseDir(), relPath)
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	ct := file.Header.Get("Content-Type")

	// Image decks get a thumbnail for the admin review screens.
	thumbPath := ""
	if strings.HasPrefix(ct, "image/") || ext == ".png" || ext == ".jpg" || ext == ".jpeg" {
		if img, err := imaging.Open(fullPath); err == nil {
			thumbRel := "decks/" + base + "_thumb.jpg"
			if err := imaging.Save(imaging.Fit(img, 480, 360, imaging.Lanczos), filepath.Join(uploadBaseDir(), thumbRel)); err == nil {
				thumbPath = "/files/" + thumbRel
			}
		}
	}

	publicURL := "/files/" + relPath

	// One document per user: replace the previous record and its files.
	var doc models.Document
	if err := db.Where("user_id = ?", user.ID).First(&doc).Error; err == nil {
		removeStoredFile(doc.StorePath)
		removeStoredFile(doc.ThumbPath)
		doc.FileName = file.Filename
		doc.StorePath = publicURL
		doc.ThumbPath = thumbPath
		doc.ContentType = ct
		if err := db.Save(&doc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
			return
		}
	} else {
		doc = models.Document{UserID: user.ID, FileName: file.Filename, StorePath: publicURL, ThumbPath: thumbPath, ContentType: ct}
		if err := db.Create(&doc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
			return
		}
	}

	// Link the deck to the submission when one already exists.
	db.Model(&models.Submission{}).Where("user_id = ?", user.ID).Update("pitch_deck_url", publicURL)

	c.JSON(http.StatusOK, gin.H{"id": doc.ID, "url": publicURL, "thumb": thumbPath})
}

// deleteDocumentHandler removes the stored deck and clears the
// submission's pitch_deck_url.
func deleteDocumentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := subjectUserID(c, user)
	if !ok {
		return
	}
	var doc models.Document
	if err := db.Where("user_id = ?", id).First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no document"})
		return
	}
	removeStoredFile(doc.StorePath)
	removeStoredFile(doc.ThumbPath)
	if err := db.Delete(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	db.Model(&models.Submission{}).Where("user_id = ?", id).Update("pitch_deck_url", "")
	c.JSON(http.StatusOK, gin.H{"message": "document removed"})
}

// removeStoredFile maps a public /files URL back to disk and removes it
// best-effort; a missing file is not an error worth surfacing.
func removeStoredFile(publicURL string) {
	rel, ok := strings.CutPrefix(publicURL, "/files/")
	if !ok || rel == "" {
		return
	}
	_ = os.Remove(filepath.Join(uploadBaseDir(), filepath.FromSlash(rel)))
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password, req.Role); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleNameFor(&user),
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleNameFor(&user),
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
