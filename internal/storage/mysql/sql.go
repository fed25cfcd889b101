package mysql

// Positional parameters only; values are never interpolated.
const insertReviewSQL = `
INSERT INTO reviews
  (airline, rating, review)
VALUES
  (?, ?, ?)
`

// Reference schema for the reviews table; schema management lives outside
// this service, the integration test applies it to a throwaway database.
const CreateReviewsTableSQL = `
CREATE TABLE IF NOT EXISTS reviews (
  id         BIGINT AUTO_INCREMENT PRIMARY KEY,
  airline    VARCHAR(255)  NOT NULL,
  rating     VARCHAR(32)   NOT NULL,
  review     VARCHAR(1000) NOT NULL,
  created_at TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP
) CHARACTER SET utf8mb4
`
