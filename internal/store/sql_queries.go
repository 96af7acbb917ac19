package store

// Fixed-shape SQL statements. Queries whose shape depends on runtime input
// (listings, updates, search) are built with squirrel in their repositories.
const (
	createUser = `INSERT INTO users (user_id, email, name, hashed_password, role, is_verified, user_icon, subscriptions)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING user_id, email, name, hashed_password, role, is_verified, user_icon, subscriptions, created_at, updated_at;`

	findUserByEmail = `SELECT user_id, email, name, hashed_password, role, is_verified, user_icon, subscriptions, created_at, updated_at
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT user_id, email, name, hashed_password, role, is_verified, user_icon, subscriptions, created_at, updated_at
    FROM users
    WHERE user_id = $1;`

	updateUserPassword = `UPDATE users
    SET hashed_password = $2, updated_at = NOW()
    WHERE user_id = $1;`

	markUserVerified = `UPDATE users
    SET is_verified = TRUE, updated_at = NOW()
    WHERE user_id = $1;`

	saveToken = `INSERT INTO tokens (id, user_id, token, purpose, expires_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, user_id, token, purpose, expires_at, created_at;`

	findToken = `SELECT id, user_id, token, purpose, expires_at, created_at
    FROM tokens
    WHERE token = $1 AND purpose = $2 AND expires_at > NOW();`

	deleteToken = `DELETE FROM tokens
    WHERE id = $1;`

	deleteUserTokens = `DELETE FROM tokens
    WHERE user_id = $1 AND purpose = $2;`

	deleteExpiredTokens = `DELETE FROM tokens
    WHERE expires_at <= $1;`

	listCourseCategories = `SELECT DISTINCT jsonb_array_elements_text(categories)
    FROM courses
    ORDER BY 1;`

	createMessage = `INSERT INTO messages (id, text, sender, sender_show, discussion_id, timestamp)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, text, sender, sender_show, discussion_id, timestamp;`

	messageExists = `SELECT EXISTS (
        SELECT 1 FROM messages
        WHERE text = $1 AND sender = $2 AND discussion_id = $3 AND timestamp = $4
    );`

	listMessagesByDiscussion = `SELECT id, text, sender, sender_show, discussion_id, timestamp
    FROM messages
    WHERE discussion_id = $1
    ORDER BY timestamp ASC;`

	getMessage = `SELECT id, text, sender, sender_show, discussion_id, timestamp
    FROM messages
    WHERE id = $1;`

	deleteMessage = `DELETE FROM messages
    WHERE id = $1;`

	createPayment = `INSERT INTO payments (id, product_name, price, status, payment_id, user_id, email, name, course_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    RETURNING id, product_name, price, status, payment_id, user_id, email, name, course_id, created_at, updated_at;`

	getPayment = `SELECT id, product_name, price, status, payment_id, user_id, email, name, course_id, created_at, updated_at
    FROM payments
    WHERE id = $1;`

	findPaymentsByEmail = `SELECT id, product_name, price, status, payment_id, user_id, email, name, course_id, created_at, updated_at
    FROM payments
    WHERE email = $1
    ORDER BY created_at DESC;`

	resolvePayment = `UPDATE payments
    SET status = $2, payment_id = $3, updated_at = NOW()
    WHERE id = $1
    RETURNING id, product_name, price, status, payment_id, user_id, email, name, course_id, created_at, updated_at;`
)
